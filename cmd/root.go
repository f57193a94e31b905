package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/okuznetsov/reqguard/internal/app"
	"github.com/okuznetsov/reqguard/internal/config"
	"github.com/okuznetsov/reqguard/internal/logger"
	"github.com/okuznetsov/reqguard/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "reqguard [flags] {url}",
		Short: "Dispatch an HTTP request through the interception and resilience layer.",
		Long: `Reqguard is a CLI tool for dispatching HTTP requests through a resilience layer.
Every request goes through:
- An interceptor pipeline that can transform it before it leaves
- A response cache for idempotent requests
- A retry executor with exponential backoff for transient failures
- A bounded request log with end-of-run statistics

The behavior of each stage is driven by the configuration file and flags.`,
		Version:          version.Full(),
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := requestOptionsFromFlags(cmd.Flags(), args)
			if err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig, opts)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"method",
		"X",
		http.MethodGet,
		"HTTP method to use, for example: GET, POST, PUT, DELETE.")

	rootCmdFlags.StringArrayP(
		"header",
		"H",
		nil,
		"header to send with the request as 'Name: value' (repeatable).")

	rootCmdFlags.StringP(
		"data",
		"d",
		"",
		"request body to send.")

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"file to save the response body to (printed to stdout if omitted).")

	rootCmdFlags.String(
		"dump-log",
		"",
		"file to dump the request log to as YAML after the run.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = config.ValidateConfig(appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to validate configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func requestOptionsFromFlags(flags *pflag.FlagSet, args []string) (*app.RequestOptions, error) {
	method, err := flags.GetString("method")
	if err != nil {
		return nil, fmt.Errorf("failed to read method flag: %w", err)
	}

	headers, err := flags.GetStringArray("header")
	if err != nil {
		return nil, fmt.Errorf("failed to read header flags: %w", err)
	}

	body, err := flags.GetString("data")
	if err != nil {
		return nil, fmt.Errorf("failed to read data flag: %w", err)
	}

	outputPath, err := flags.GetString("output")
	if err != nil {
		return nil, fmt.Errorf("failed to read output flag: %w", err)
	}

	dumpLogPath, err := flags.GetString("dump-log")
	if err != nil {
		return nil, fmt.Errorf("failed to read dump-log flag: %w", err)
	}

	return &app.RequestOptions{
		Method:      method,
		URL:         args[0],
		Headers:     headers,
		Body:        body,
		OutputPath:  outputPath,
		DumpLogPath: dumpLogPath,
	}, nil
}
