package accounts_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/config"
	"github.com/goliatone/go-accounts/logging"
	"github.com/goliatone/go-accounts/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const (
	testSecret  = "test-secret-key"
	testPurpose = "email-confirmation"
	testBaseURL = "http://accounts.test/api"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := persistence.Open(context.Background(), config.Persistence{
		Driver: config.DriverSQLite,
		DSN:    dsn,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func newTestRepo(t *testing.T) accounts.RepositoryManager {
	t.Helper()

	repo := accounts.NewRepositoryManager(newTestDB(t))
	require.NoError(t, repo.Validate())
	require.NoError(t, repo.CreateSchema(context.Background()))

	return repo
}

func newTestLogger() *logging.SlogLogger {
	return logging.New(io.Discard, "debug", "text")
}

type testEnv struct {
	app    *fiber.App
	repo   accounts.RepositoryManager
	tokens *accounts.TokenService
	codec  *accounts.ConfirmationCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newTestRepo(t)
	lgr := newTestLogger()

	tokens := accounts.NewTokenService(repo.Users(), accounts.WithTokenLogger(lgr))

	codec, err := accounts.NewConfirmationCodec(testSecret, testPurpose)
	require.NoError(t, err)

	ctrl := accounts.NewController(
		accounts.WithRepository(repo),
		accounts.WithTokenService(tokens),
		accounts.WithConfirmationCodec(codec),
		accounts.WithLinkBaseURL(testBaseURL),
		accounts.WithControllerLogger(lgr),
	)

	return &testEnv{
		app:    accounts.NewApp(ctrl, lgr),
		repo:   repo,
		tokens: tokens,
		codec:  codec,
	}
}

type testResponse struct {
	Status int
	Header http.Header
	Raw    []byte
	Body   map[string]any
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authorization string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := testResponse{
		Status: resp.StatusCode,
		Header: resp.Header,
		Raw:    raw,
	}

	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), "body: %s", raw)
	}

	return out
}

// createUser stores a user straight through the repository
func (e *testEnv) createUser(t *testing.T, username, password, email string, confirmed bool) *accounts.User {
	t.Helper()

	user := &accounts.User{
		Username:  username,
		Email:     email,
		Confirmed: confirmed,
	}
	require.NoError(t, user.SetPassword(password))

	user, err := e.repo.Users().Insert(context.Background(), user)
	require.NoError(t, err)

	return user
}

func (e *testEnv) issueToken(t *testing.T, user *accounts.User) string {
	t.Helper()

	token, err := e.tokens.Issue(context.Background(), user)
	require.NoError(t, err)
	return token
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func bearer(token string) string {
	return "Bearer " + token
}

func code(t *testing.T, r testResponse) int {
	t.Helper()

	raw, ok := r.Body["code"]
	require.True(t, ok, "missing code in %s", r.Raw)

	n, ok := raw.(float64)
	require.True(t, ok, "code is not a number in %s", r.Raw)

	return int(n)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func assertKind(t *testing.T, err error, kind accounts.Kind, msgAndArgs ...any) bool {
	t.Helper()

	got, ok := accounts.KindOf(err)
	if !assert.True(t, ok, "expected a %s error, got %v", kind, err) {
		return false
	}
	return assert.Equal(t, kind, got, msgAndArgs...)
}
