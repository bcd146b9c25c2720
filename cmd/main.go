package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochronus/gopastebin/internal/app"
	"github.com/ochronus/gopastebin/internal/config"
	"github.com/ochronus/gopastebin/internal/sandbox"
	"github.com/ochronus/gopastebin/internal/utils"
	"github.com/ochronus/gopastebin/pastebin"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	// Root command
	rootCmd := &cobra.Command{
		Use:           "gopastebin",
		Short:         "Pastebin API client",
		Long:          "Create, list, read and delete pastes through the Pastebin developer API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	// Login command
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a user key from the configured username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loadContainer(app.WithLogin(false))
			if err != nil {
				return err
			}
			cfg := container.Config
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}
			if !cfg.HasLogin() {
				return fmt.Errorf("username and password are required (or set PASTEBIN_USERNAME and PASTEBIN_PASSWORD)")
			}
			_, err = utils.GetUserKey(cmd.OutOrStdout(), container.Client, cfg.DevKey, cfg.Username, cfg.Password)
			return err
		},
	}

	// Generate-config command
	var devKey, username, password string
	generateConfigCmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Log in and write a config file holding the user key",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loadContainer(app.WithLogin(false))
			if err != nil {
				return err
			}
			cfg := container.Config
			if devKey == "" {
				devKey = cfg.DevKey
			}
			if username == "" {
				username = cfg.Username
			}
			if password == "" {
				password = cfg.Password
			}
			if devKey == "" || username == "" || password == "" {
				return fmt.Errorf("dev key, username and password are required")
			}
			return utils.GenerateConfig(cmd.OutOrStdout(), configPath, container.Client, devKey, username, password)
		},
	}
	generateConfigCmd.Flags().StringVar(&devKey, "dev-key", "", "Developer key (default from config)")
	generateConfigCmd.Flags().StringVar(&username, "username", "", "Username (default from config)")
	generateConfigCmd.Flags().StringVar(&password, "password", "", "Password (default from config or PASTEBIN_PASSWORD)")

	// Sandbox command
	sandboxCmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local emulator of the Pastebin API",
		RunE:  runSandbox,
	}

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gopastebin version %s\n", version)
		},
	}

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRawCmd())
	rootCmd.AddCommand(sandboxCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// loadConfig reads .env, the config file and the environment.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadContainer builds the shared dependencies from the loaded config.
func loadContainer(opts ...app.Option) (*app.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Build container with shared dependencies
	container, err := app.NewContainer(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}
	return container, nil
}

// loadAPIContainer is loadContainer for commands that need a developer key.
// It logs in when only a username and password are configured.
func loadAPIContainer() (*app.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	container, err := app.NewContainer(cfg)
	if err != nil {
		return nil, describeError(err)
	}
	return container, nil
}

func runSandbox(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := loadContainer(app.WithLogin(false))
	if err != nil {
		return err
	}

	container.Logger.Infof("Starting gopastebin sandbox, version %s", version)

	server, err := sandbox.NewServer(container)
	if err != nil {
		return err
	}
	return server.StartWithContext(ctx)
}

// printLines writes response lines as they came.
func printLines(cmd *cobra.Command, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

// describeError adds a hint to the errors a user can act on.
func describeError(err error) error {
	switch {
	case pastebin.IsConnectionError(err):
		return fmt.Errorf("%w (is the network up?)", err)
	case pastebin.IsNotFound(err):
		return fmt.Errorf("%w (see 'gopastebin list')", err)
	}
	return err
}
