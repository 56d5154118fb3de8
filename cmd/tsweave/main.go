package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsweave/tsweave/internal/pipeline"
	"github.com/tsweave/tsweave/pkg/config"
	"github.com/tsweave/tsweave/pkg/logger"

	// Import transformers to register them
	_ "github.com/tsweave/tsweave/pkg/transform/series"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var logLevel string

	root := &cobra.Command{
		Use:   "tsweave",
		Short: "Columnwise composition of time-series transformers",
		Long: `tsweave applies configured transformers columnwise over tabular
time-series data: a single transformer broadcast per column, or distinct
transformers routed to column groups.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    logLevel,
				Encoding: "console",
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newApplyCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApplyCommand() *cobra.Command {
	var configPath string
	var inputPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run a configured transformation pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync() //nolint:errcheck

			var cfg config.PipelineConfig
			if err := config.Load(configPath, &cfg); err != nil {
				return err
			}
			if inputPath != "" {
				cfg.Source.Path = inputPath
			}
			if outputPath != "" {
				cfg.Sink.Path = outputPath
			}

			runner, err := pipeline.NewRunner(&cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runner.Run(ctx); err != nil {
				logger.Error("pipeline failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "pipeline configuration file (YAML or JSON)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "override source path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "override sink path")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tsweave version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tsweave %s\n", version)
		},
	}
}
