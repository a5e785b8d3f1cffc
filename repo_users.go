package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Users is the store handlers use. Lookups are exact matches and return
// ErrUserNotFound when nothing matches.
type Users interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Insert(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

type users struct {
	db bun.IDB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a Users store backed by db
func NewUsersRepository(db bun.IDB) Users {
	return &users{db: db}
}

func (r *users) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *users) FindByToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	return r.findBy(ctx, "token", token)
}

// findBy only receives column names from this file
func (r *users) findBy(ctx context.Context, column string, value any) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, column)
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}

	return record, nil
}

func (r *users) List(ctx context.Context) ([]*User, error) {
	records := make([]*User, 0)
	if err := r.db.NewSelect().Model(&records).Order("usr.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return records, nil
}

func (r *users) Insert(ctx context.Context, user *User) (*User, error) {
	if _, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *users) Update(ctx context.Context, user *User) (*User, error) {
	res, err := r.db.NewUpdate().Model(user).WherePK().Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, user.ID)
	}

	return user, nil
}
