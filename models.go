package accounts

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// BirthdayLayout is how birthdays are stored and rendered
const BirthdayLayout = "2006-01-02"

// birthdayLayouts are accepted on input, in order
var birthdayLayouts = []string{BirthdayLayout, "02.01.2006"}

// User is the user model
type User struct {
	bun.BaseModel   `bun:"table:users,alias:usr"`
	ID              int64      `bun:"id,pk,autoincrement" json:"id"`
	Username        string     `bun:"username,notnull,type:varchar(64)" json:"username"`
	Email           string     `bun:"email,notnull,type:varchar(128)" json:"email"`
	Birthday        *time.Time `bun:"birthday,type:date" json:"birthday"`
	PasswordHash    string     `bun:"password_hash,notnull,type:varchar(128)" json:"-"`
	Confirmed       bool       `bun:"confirmed,notnull,default:false" json:"confirmed"`
	Token           string     `bun:"token,unique,nullzero,type:varchar(32)" json:"-"`
	TokenExpiration *time.Time `bun:"token_expiration" json:"-"`
}

// SetPassword stores the hash of password, the plain text is never kept
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return ComparePasswordAndHash(password, u.PasswordHash) == nil
}

// HasValidToken reports whether the user holds a token that is still valid at t
func (u *User) HasValidToken(t time.Time) bool {
	return u.Token != "" && u.TokenExpiration != nil && u.TokenExpiration.After(t)
}

// UserView is the public representation of a user. It never carries the
// password hash or the bearer token.
type UserView struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Birthday  *string `json:"birthday"`
	Confirmed bool    `json:"confirmed"`
	Email     string  `json:"email,omitempty"`
}

// View returns the public view, includeEmail adds the email address
func (u *User) View(includeEmail bool) UserView {
	v := UserView{
		ID:        u.ID,
		Username:  u.Username,
		Confirmed: u.Confirmed,
	}

	if u.Birthday != nil {
		b := u.Birthday.Format(BirthdayLayout)
		v.Birthday = &b
	}

	if includeEmail {
		v.Email = u.Email
	}

	return v
}

// UserCollection is the collection view, emails are never included
type UserCollection struct {
	Items []UserView `json:"items"`
}

// NewUserCollection builds the collection view for users
func NewUserCollection(users []*User) UserCollection {
	items := make([]UserView, 0, len(users))
	for _, u := range users {
		items = append(items, u.View(false))
	}
	return UserCollection{Items: items}
}

// ParseBirthday accepts YYYY-MM-DD or DD.MM.YYYY
func ParseBirthday(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid birthday %q", raw)
}
