package app

import (
	"fmt"

	"github.com/ochronus/gopastebin/internal/config"
	"github.com/ochronus/gopastebin/pastebin"
	"github.com/sirupsen/logrus"
)

// Container centralizes the core dependencies used across the application.
// It is intentionally small and uses interfaces so callers (and tests) can
// substitute implementations easily.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Client pastebin.ClientAPI
	// Session is nil until a user key is known.
	Session *pastebin.Session
	Login   bool
}

// Option allows customizing the container during construction.
type Option func(*Container) error

// WithLogger overrides the default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithClient overrides the default pastebin client.
func WithClient(client pastebin.ClientAPI) Option {
	return func(c *Container) error {
		if client == nil {
			return fmt.Errorf("pastebin client cannot be nil")
		}
		c.Client = client
		return nil
	}
}

// WithLogin enables or disables obtaining a user key from the configured
// username and password when none is configured (default: enabled).
func WithLogin(login bool) Option {
	return func(c *Container) error {
		c.Login = login
		return nil
	}
}

// NewContainer builds a Container with sensible defaults derived from cfg.
// Options can be supplied to override specific dependencies (useful in tests).
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	container := &Container{
		Config: cfg,
		Logger: buildDefaultLogger(cfg.Loglevel),
		Login:  true,
	}

	// Apply options early so tests can inject mocks before defaults are created.
	for _, opt := range opts {
		if err := opt(container); err != nil {
			return nil, err
		}
	}

	if container.Client == nil {
		container.Client = buildClient(cfg, container.Logger)
	}

	userKey := cfg.UserKey
	if userKey == "" && container.Login && cfg.HasLogin() && cfg.DevKey != "" {
		key, err := container.Client.ObtainUserKey(cfg.DevKey, cfg.Username, cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to log in as %s: %w", cfg.Username, err)
		}
		container.Logger.Debugf("Obtained user key for %s", cfg.Username)
		userKey = key
	}
	if userKey != "" {
		container.Session = pastebin.NewSession(container.Client, cfg.DevKey, userKey)
	}

	return container, nil
}

// RequireSession returns the session or explains how to get one.
func (c *Container) RequireSession() (*pastebin.Session, error) {
	if c.Session == nil {
		return nil, fmt.Errorf("no user key: set user_key, or username and password, in the config")
	}
	return c.Session, nil
}

func buildDefaultLogger(levelStr string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func buildClient(cfg *config.Config, logger *logrus.Logger) *pastebin.Client {
	opts := []pastebin.ClientOption{pastebin.WithLogger(logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, pastebin.WithBaseURL(cfg.BaseURL))
	}
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		opts = append(opts, pastebin.WithTimeout(timeout))
	}
	return pastebin.NewClient(opts...)
}
