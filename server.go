package accounts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-accounts/middleware/accesslog"
	"github.com/goliatone/go-accounts/middleware/requestid"
)

// NewApp builds the fiber app serving ctrl. Every failure, including panics,
// unmatched routes and unsupported methods, goes through ErrorHandler.
func NewApp(ctrl *Controller, logger Logger) *fiber.App {
	logger = ensureLogger(logger)

	app := fiber.New(fiber.Config{
		AppName:               "accounts",
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(accesslog.New(accesslog.Config{
		Logger:      logger,
		UserIDLocal: UserIDLocal,
	}))
	app.Use(recover.New())

	RegisterRoutes(app, ctrl)

	return app
}

// NewControllerFromConfig wires the token service and the confirmation codec
// for repo from cfg and returns the controller using them
func NewControllerFromConfig(cfg Config, repo RepositoryManager, logger Logger) (*Controller, error) {
	logger = ensureLogger(logger)

	codec, err := NewConfirmationCodec(cfg.GetSecretKey(), cfg.GetPasswordSalt())
	if err != nil {
		return nil, err
	}

	tokens := NewTokenService(repo.Users(),
		WithTokenExpiration(cfg.GetTokenExpiration()),
		WithTokenLogger(logger),
	)

	return NewController(
		WithRepository(repo),
		WithTokenService(tokens),
		WithConfirmationCodec(codec),
		WithLinkBaseURL(cfg.GetLinkBaseURL()),
		WithControllerLogger(logger),
	), nil
}
