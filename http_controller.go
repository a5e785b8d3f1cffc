package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// MessageResponse is the body of informational responses
type MessageResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// ConfirmationReminderCode marks a token request answered with a
// confirmation link instead of a token
const ConfirmationReminderCode = 201

// RegisterRequest payload
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Birthday string `json:"birthday"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 64),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			validation.Length(1, 128),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.By(maxBytes(MaxPasswordBytes)),
		),
	)
}

// maxBytes limits the encoded length of a string, Length counts runes
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes long", n)
		}
		return nil
	}
}

// UpdateUserRequest payload, nil fields are left untouched
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Birthday *string `json:"birthday"`
}

// Validate will run validation rules
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.NilOrNotEmpty,
			validation.Length(1, 64),
		),
		validation.Field(
			&r.Email,
			validation.NilOrNotEmpty,
			validation.Length(1, 128),
		),
	)
}

// Controller holds the user, token and confirmation handlers
type Controller struct {
	Logger        Logger
	Repo          RepositoryManager
	Tokens        *TokenService
	Confirmations *ConfirmationCodec
	Guard         *Guard
	// LinkBaseURL prefixes the confirmation path in links sent to users
	LinkBaseURL string
}

type ControllerOption func(*Controller) *Controller

func WithControllerLogger(l Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = ensureLogger(l)
		return c
	}
}

func WithRepository(repo RepositoryManager) ControllerOption {
	return func(c *Controller) *Controller {
		c.Repo = repo
		return c
	}
}

func WithTokenService(ts *TokenService) ControllerOption {
	return func(c *Controller) *Controller {
		c.Tokens = ts
		return c
	}
}

func WithConfirmationCodec(codec *ConfirmationCodec) ControllerOption {
	return func(c *Controller) *Controller {
		c.Confirmations = codec
		return c
	}
}

func WithGuard(g *Guard) ControllerOption {
	return func(c *Controller) *Controller {
		c.Guard = g
		return c
	}
}

func WithLinkBaseURL(base string) ControllerOption {
	return func(c *Controller) *Controller {
		c.LinkBaseURL = base
		return c
	}
}

// NewController builds the controller. A guard is created from the
// repository and token service unless one is given.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in accounts controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in accounts controller...")
	}

	if c.Confirmations == nil {
		panic("Missing ConfirmationCodec in accounts controller...")
	}

	if c.Guard == nil {
		provider := NewUserProvider(c.Repo.Users()).WithLogger(c.Logger)
		c.Guard = NewGuard(provider, c.Tokens)
	}

	return c
}

// RegisterRoutes mounts the JSON API under /api and the legacy confirmation
// route at the root
func RegisterRoutes(app fiber.Router, ctrl *Controller) {
	api := app.Group("/api")

	api.Post("/users", ctrl.CreateUser)
	api.Get("/users", ctrl.Guard.Bearer(ctrl.ListUsers))
	api.Get("/users/:id", ctrl.Guard.Bearer(ctrl.GetUser))
	api.Put("/users/:id", ctrl.Guard.Bearer(ctrl.UpdateUser))

	api.Post("/tokens", ctrl.Guard.Basic(ctrl.IssueToken))
	api.Delete("/tokens", ctrl.Guard.Bearer(ctrl.RevokeToken))

	api.Get("/confirm/:token", ctrl.Confirm)
	api.Post("/confirm/:token", ctrl.Confirm)

	app.Get("/confirm/:token", ctrl.LegacyConfirm)
	app.Post("/confirm/:token", ctrl.LegacyConfirm)
}

// CreateUser registers an unconfirmed user and answers with the
// confirmation link
func (a *Controller) CreateUser(c *fiber.Ctx) error {
	payload := new(RegisterRequest)
	if err := decodeBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("registration rejected", "validation", err.Error())
		return NewError(KindInsufficientData, "Must include username, email and password fields.")
	}

	ctx := c.UserContext()
	users := a.Repo.Users()

	if err := a.ensureUsernameFree(ctx, payload.Username, 0); err != nil {
		return err
	}

	if err := a.ensureEmailFree(ctx, payload.Email, 0); err != nil {
		return err
	}

	user := &User{
		Username: payload.Username,
		Email:    payload.Email,
	}

	if payload.Birthday != "" {
		birthday, err := ParseBirthday(payload.Birthday)
		if err != nil {
			return NewError(KindInsufficientData, "Birthday must use YYYY-MM-DD.")
		}
		user.Birthday = &birthday
	}

	if err := user.SetPassword(payload.Password); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if _, err := users.Insert(ctx, user); err != nil {
		return err
	}

	link, err := a.confirmationLink(user.Email)
	if err != nil {
		return err
	}

	a.Logger.Info("user registered", "user_id", user.ID)

	return c.JSON(MessageResponse{
		Message: "Link to confirm email: " + link,
	})
}

// GetUser returns the caller's own record, email included
func (a *Controller) GetUser(c *fiber.Ctx, current *User) error {
	user, err := a.ownedUser(c, current)
	if err != nil {
		return err
	}
	return c.JSON(user.View(true))
}

// ListUsers returns every user without emails
func (a *Controller) ListUsers(c *fiber.Ctx, current *User) error {
	records, err := a.Repo.Users().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(NewUserCollection(records))
}

// UpdateUser applies the supplied fields to the caller's own record
func (a *Controller) UpdateUser(c *fiber.Ctx, current *User) error {
	user, err := a.ownedUser(c, current)
	if err != nil {
		return err
	}

	payload := new(UpdateUserRequest)
	if err := decodeBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("update rejected", "user_id", user.ID, "validation", err.Error())
		return NewError(KindInsufficientData, "Username and email can not be empty.")
	}

	ctx := c.UserContext()

	if payload.Username != nil && *payload.Username != user.Username {
		if err := a.ensureUsernameFree(ctx, *payload.Username, user.ID); err != nil {
			return err
		}
		user.Username = *payload.Username
	}

	if payload.Email != nil && *payload.Email != user.Email {
		if err := a.ensureEmailFree(ctx, *payload.Email, user.ID); err != nil {
			return err
		}
		user.Email = *payload.Email
	}

	if payload.Birthday != nil {
		if *payload.Birthday == "" {
			user.Birthday = nil
		} else {
			birthday, err := ParseBirthday(*payload.Birthday)
			if err != nil {
				return NewError(KindInsufficientData, "Birthday must use YYYY-MM-DD.")
			}
			user.Birthday = &birthday
		}
	}

	if _, err := a.Repo.Users().Update(ctx, user); err != nil {
		return err
	}

	return c.JSON(user.View(true))
}

// IssueToken hands out a bearer token to confirmed users. Unconfirmed users
// get a fresh confirmation link instead.
func (a *Controller) IssueToken(c *fiber.Ctx, current *User) error {
	if !current.Confirmed {
		link, err := a.confirmationLink(current.Email)
		if err != nil {
			return err
		}
		return c.JSON(MessageResponse{
			Message: KindNotConfirmed.DefaultMessage() + " Link to confirm email: " + link,
			Code:    ConfirmationReminderCode,
		})
	}

	token, err := a.Tokens.Issue(c.UserContext(), current)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{Token: token})
}

// RevokeToken expires the caller's token
func (a *Controller) RevokeToken(c *fiber.Ctx, current *User) error {
	if err := a.Tokens.Revoke(c.UserContext(), current); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm marks the email bound into the link token as confirmed
func (a *Controller) Confirm(c *fiber.Ctx) error {
	if err := a.confirm(c.UserContext(), c.Params("token")); err != nil {
		return err
	}
	return c.JSON(MessageResponse{Message: "Email confirmed."})
}

func (a *Controller) confirm(ctx context.Context, token string) error {
	email, err := a.Confirmations.Resolve(token)
	if err != nil {
		return err
	}

	user, err := a.Repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if IsUserNotFound(err) {
			return NewError(KindInvalidLink)
		}
		return err
	}

	if user.Confirmed {
		return NewError(KindAlreadyConfirmed)
	}

	user.Confirmed = true
	if _, err := a.Repo.Users().Update(ctx, user); err != nil {
		return err
	}

	a.Logger.Info("email confirmed", "user_id", user.ID)
	return nil
}

// ownedUser loads the user addressed by the :id param and checks the caller
// is that user. Ids that are not integers, or overflow one, are not found.
func (a *Controller) ownedUser(c *fiber.Ctx, current *User) (*User, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, NewError(KindNotFound, "User not found.")
	}

	user, err := a.Repo.Users().FindByID(c.UserContext(), int64(id))
	if err != nil {
		if IsUserNotFound(err) {
			return nil, NewError(KindNotFound, "User not found.")
		}
		return nil, err
	}

	if user.ID != current.ID {
		return nil, NewError(KindInsufficientRights)
	}

	return user, nil
}

// ensureUsernameFree fails with NameUsed if another user holds username
func (a *Controller) ensureUsernameFree(ctx context.Context, username string, self int64) error {
	other, err := a.Repo.Users().FindByUsername(ctx, username)
	if err != nil {
		if IsUserNotFound(err) {
			return nil
		}
		return err
	}
	if other.ID != self {
		return NewError(KindNameUsed)
	}
	return nil
}

// ensureEmailFree fails with EmailUsed if another user holds email
func (a *Controller) ensureEmailFree(ctx context.Context, email string, self int64) error {
	other, err := a.Repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if IsUserNotFound(err) {
			return nil
		}
		return err
	}
	if other.ID != self {
		return NewError(KindEmailUsed)
	}
	return nil
}

func (a *Controller) confirmationLink(email string) (string, error) {
	token, err := a.Confirmations.Issue(email)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(a.LinkBaseURL, "/") + "/confirm/" + token, nil
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		return NewError(KindInsufficientData, "Request body must be a JSON object.")
	}

	return nil
}
