package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/pkg/tracing"
	"github.com/pg-sharding/shardproxy/router/app"
	"github.com/pg-sharding/shardproxy/router/instance"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	cfgPath string

	logLevel         string
	prettyLogging    bool
	transactionType  string
	maxParallelUnits int
	jaegerUrl        string

	binaryRows bool
	showStats  bool
)

var rootCmd = &cobra.Command{
	Use:   "shardproxy exec --config `path-to-config` SQL...",
	Short: "shardproxy",
	Long:  "shardproxy routes statements to sharded data sources and merges their results",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "/etc/shardproxy/proxy.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warning, error or fatal")
	rootCmd.PersistentFlags().BoolVar(&prettyLogging, "pretty-log", false, "write logs in human readable format")
	rootCmd.PersistentFlags().StringVar(&transactionType, "transaction-type", "", "transaction type: LOCAL, XA or BASE")
	rootCmd.PersistentFlags().IntVar(&maxParallelUnits, "max-parallel-units", 0, "execution units of one statement run at once, 0 for no limit")
	rootCmd.PersistentFlags().StringVar(&jaegerUrl, "jaeger-url", "", "jaeger agent address")

	execCmd.Flags().BoolVar(&binaryRows, "binary", false, "produce rows in the binary protocol format")
	execCmd.Flags().BoolVar(&showStats, "stats", false, "print query time quantiles after execution")

	rootCmd.AddCommand(execCmd, configCmd)
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Proxy, error) {
	if _, err := config.LoadProxyCfg(cfgPath); err != nil {
		return nil, err
	}
	cfg := config.ProxyConfig()
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	proxylog.ReloadLogger(cfg.LogFileName, cfg.LogLevel, cfg.PrettyLogging)
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "validate and print the running config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg)
	},
}

var execCmd = &cobra.Command{
	Use:   "exec SQL...",
	Short: "execute statements as one session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		closer, err := tracing.InitJaegerTracer(cfg.JaegerConfig)
		if err != nil {
			return errors.Wrap(err, "failed to init tracer")
		}
		defer func() {
			if err := closer.Close(); err != nil {
				proxylog.Zero.Error().Err(err).Msg("failed to close tracer")
			}
		}()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		proxy, err := instance.NewInstance(ctx, cfg)
		if err != nil {
			return errors.Wrap(err, "proxy failed to start")
		}
		defer func() {
			if err := proxy.Shutdown(); err != nil {
				proxylog.Zero.Error().Err(err).Msg("failed to shutdown proxy")
			}
		}()

		w := newResultWriter(cmd.OutOrStdout())
		if err := app.NewApp(proxy).Exec(ctx, args, binaryRows, w); err != nil {
			return err
		}
		if showStats {
			printStats(cmd.OutOrStdout(), proxy.Stats())
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
