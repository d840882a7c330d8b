// Package cli provides the command-line interface for the payoff analyzer.
package cli

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"option-payoff/internal/config"
	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/logging"
	"option-payoff/internal/payoff"
	"option-payoff/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-18"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Analyzer *payoff.Analyzer

	store store.BookStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Analyzer: payoff.NewAnalyzer(logger, cfg.CurveOptions()),
	}

	rootCmd := &cobra.Command{
		Use:   "payoff",
		Short: "Option payoff analyzer",
		Long: `payoff builds books of option and underlying legs and analyzes them at expiry.

It computes the piecewise-linear P&L over the strike ladder, names the
strategy, solves break-even prices and summarizes directional risk.
Books are kept in a local SQLite database.

Use 'payoff leg add' to enter legs and 'payoff analyze' to see the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/option-payoff)")
	rootCmd.PersistentFlags().String("book", "", "book to operate on (default: store.default_book)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addLegCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addBookCommands(rootCmd, app)
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

// ConfigDirFromArgs finds --config before cobra parses flags, so the config
// can be loaded ahead of building the command tree.
func ConfigDirFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// Store opens the book database on first use.
func (a *App) Store() (store.BookStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := store.NewSQLiteStore(a.Config.Store.Path, store.WithKeepHistory(a.Config.Store.KeepHistory))
	if err != nil {
		return nil, err
	}
	a.Logger.Debug().Str("path", a.Config.Store.Path).Msg("SQLite store initialized")
	a.store = s
	return s, nil
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// bookName resolves --book against the configured default.
func (a *App) bookName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("book")
	if strings.TrimSpace(name) == "" {
		return a.Config.Store.DefaultBook
	}
	return name
}

// loadBook reads the selected book. A book that was never saved is empty.
func (a *App) loadBook(ctx context.Context, cmd *cobra.Command) (string, payoff.Book, error) {
	name := a.bookName(cmd)
	s, err := a.Store()
	if err != nil {
		return name, payoff.Book{}, err
	}
	book, err := s.LoadBook(ctx, name)
	if apperrors.Is(err, apperrors.ErrBookNotFound) {
		return name, payoff.Book{}, nil
	}
	return name, book, err
}

func (a *App) saveBook(ctx context.Context, name string, book payoff.Book) error {
	s, err := a.Store()
	if err != nil {
		return err
	}
	return s.SaveBook(ctx, name, book)
}

// output builds an Output using the configured currency.
func (a *App) output(cmd *cobra.Command) *Output {
	return NewOutput(cmd).WithCurrency(a.Config.Analysis.Currency)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("payoff v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Config.Path()})
			} else {
				output.Println(app.Config.Path())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return reportedError{err}
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Analysis")
	output.Printf("  Chart points:    %d\n", cfg.Analysis.ChartPoints)
	output.Printf("  Range multiple:  %g\n", cfg.Analysis.RangeMultiplier)
	output.Printf("  Single divisor:  %g\n", cfg.Analysis.SingleStrikeDivisor)
	output.Printf("  Currency:        %s\n", cfg.Analysis.Currency)
	output.Printf("  Chart size:      %dx%d\n", cfg.Chart.Width, cfg.Chart.Height)
	output.Println()

	output.Bold("Store")
	output.Printf("  Path:            %s\n", cfg.Store.Path)
	output.Printf("  Default book:    %s\n", cfg.Store.DefaultBook)
	output.Printf("  Keep history:    %d\n", cfg.Store.KeepHistory)
	output.Println()

	output.Bold("Server")
	output.Printf("  Port:            %d\n", cfg.Server.Port)
	output.Printf("  Dev mode:        %v\n", cfg.Server.DevMode)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	file := "off"
	if cfg.Logging.File {
		file = cfg.Logging.FilePath
	}
	output.Printf("  File:            %s\n", file)
}

// reportedError marks an error that was already shown to the user.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// fail prints err and returns it so cobra exits non-zero.
func fail(output *Output, err error) error {
	if output.IsJSON() {
		output.JSON(map[string]string{"error": err.Error()})
	} else {
		output.Error("Error: %v", err)
	}
	return reportedError{err}
}

// Reported reports whether a command already printed err.
func Reported(err error) bool {
	var r reportedError
	return apperrors.As(err, &r)
}
