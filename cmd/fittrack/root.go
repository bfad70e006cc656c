package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/fittrack/internal/platform"
	"github.com/aretw0/fittrack/pkg/auth"
	"github.com/aretw0/fittrack/pkg/core"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	userName   string
	password   string
	reason     string

	cfg    platform.Config
	logger = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fittrack",
	Short: "A personal nutrition and exercise tracker",
	Long: `fittrack logs what you eat and the exercise you do, one append-only log
per user, and summarizes the last days on demand.

Data lives in flat files (JSON or YAML logs, CSV daily summaries) that can be
versioned with git.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := platform.LoadEnv(); err != nil {
			return err
		}

		var err error
		cfg, err = platform.LoadConfig(configPath, dataDir)
		if err != nil {
			return err
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "Data directory (default: $FITTRACK_DATA or the nearest directory holding .fittrack)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: fittrack.yaml in the data directory)")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "User name (default: $FITTRACK_USER)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "Password (default: $FITTRACK_PASSWORD, else prompted)")
	rootCmd.PersistentFlags().StringVarP(&reason, "reason", "m", "", "Commit message for versioned data directories")
}

// openService builds the service from the resolved config.
func openService(extra ...platform.Option) (*core.Service, error) {
	opts, err := cfg.Options(logger)
	if err != nil {
		return nil, err
	}
	opts = append(opts, platform.WithMustExist(true))
	return platform.New(cfg.DataDir, append(opts, extra...)...)
}

// commandContext carries the --reason flag to the repository.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if reason != "" {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, reason)
	}
	return ctx
}

// credentials resolves the user and password from flags, the environment
// and, on a terminal, a prompt.
func credentials() (string, string, error) {
	name := userName
	if name == "" {
		name = os.Getenv(platform.EnvUser)
	}
	if strings.TrimSpace(name) == "" {
		return "", "", errors.New("no user given, use --user or $" + platform.EnvUser)
	}

	pw := password
	if pw == "" {
		pw = os.Getenv(platform.EnvPassword)
	}
	if pw == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		pw = string(b)
	}
	return name, pw, nil
}

// login checks the credentials and returns the user to act on.
func login(ctx context.Context, svc *core.Service) (string, error) {
	name, pw, err := credentials()
	if err != nil {
		return "", err
	}
	authn, err := platform.NewAuthenticator(svc, auth.WithLogger(logger))
	if err != nil {
		return "", err
	}
	if err := authn.Login(ctx, name, pw); err != nil {
		return "", err
	}
	return name, nil
}
