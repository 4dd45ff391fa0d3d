package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/millennium/config"
	"github.com/s0up4200/millennium/millennium"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *millennium.Client

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "millennium",
	Short: "A command line client for the Millennium ERP API",
	Long: `millennium logs in to a Millennium ERP server and calls its API methods,
printing the decoded results as a table or as JSON.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion sets the version information reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (table or json)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and logs in to Millennium
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	// Override output format from command line if specified
	if cmd.Flags().Changed("output") {
		if outputFormat != "table" && outputFormat != "json" {
			return fmt.Errorf("invalid output format: %s (must be 'table' or 'json')", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}

	for _, name := range compileFilterPresets(cfg.Filter.Presets) {
		logger.Warn().Str("preset", name).Msg("Filter preset does not compile")
	}

	opts := []millennium.Option{
		millennium.WithTLS(cfg.Millennium.TLS),
		millennium.WithTimeout(cfg.Millennium.RequestTimeout()),
		millennium.WithLogger(logger),
		millennium.WithUserAgent("millennium-cli/" + version),
	}
	if cfg.Millennium.InsecureSkipVerify {
		opts = append(opts, millennium.WithInsecureSkipVerify())
	}

	client, err = millennium.Login(cmd.Context(), cfg.Millennium.Host, cfg.Millennium.Username, cfg.Millennium.Password, opts...)
	if err != nil {
		return fmt.Errorf("failed to log in to Millennium: %w", err)
	}

	logger.Debug().Str("base_url", client.BaseURL()).Msg("Logged in")
	return nil
}

// skipInitialize is used by commands that need neither config nor a session
func skipInitialize(cmd *cobra.Command, args []string) error {
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	var writers []io.Writer
	if cfg.Format == "json" {
		writers = append(writers, os.Stderr)
	} else {
		fd := os.Stderr.Fd()
		terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !terminal,
		})
	}

	// Rotated file output is always JSON
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
			LocalTime:  true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to Millennium",
	Long:  `Log in to the configured Millennium server and display the session details.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to Millennium at %s...\n", cfg.Millennium.Host)

	// Login already happened during initialization
	fmt.Println("✓ Connection successful!")
	fmt.Printf("- API: %s\n", client.BaseURL())
	fmt.Printf("- User: %s\n", strings.ToUpper(cfg.Millennium.Username))
	fmt.Printf("- Timeout: %s\n", client.Timeout())

	return nil
}
