package main

import (
	"fmt"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/spf13/cobra"
)

type overrideRule struct {
	name     string
	changed  func() bool
	validate func() error
	apply    func()
}

func boolOR(dst *bool, add bool) { *dst = *dst || add }

func buildOverrideRules(cmd *cobra.Command, cfg *config.Proxy) []overrideRule {
	return []overrideRule{
		{
			name:    "log-level",
			changed: func() bool { return cmd.Flags().Changed("log-level") },
			apply:   func() { cfg.LogLevel = logLevel },
		},
		{
			name:    "pretty-log",
			changed: func() bool { return cmd.Flags().Changed("pretty-log") },
			apply:   func() { boolOR(&cfg.PrettyLogging, prettyLogging) },
		},
		{
			name:    "transaction-type",
			changed: func() bool { return cmd.Flags().Changed("transaction-type") },
			validate: func() error {
				_, err := txstatus.TransactionTypeByName(transactionType)
				return err
			},
			apply: func() { cfg.TransactionType = transactionType },
		},
		{
			name:    "max-parallel-units",
			changed: func() bool { return cmd.Flags().Changed("max-parallel-units") },
			validate: func() error {
				if maxParallelUnits < 0 {
					return fmt.Errorf("must not be negative, got %d", maxParallelUnits)
				}
				return nil
			},
			apply: func() { cfg.ExecuterCfg.MaxParallelUnits = maxParallelUnits },
		},
		{
			name:    "jaeger-url",
			changed: func() bool { return cmd.Flags().Changed("jaeger-url") },
			apply:   func() { cfg.JaegerConfig.JaegerUrl = jaegerUrl },
		},
	}
}

func applyOverrides(cmd *cobra.Command, cfg *config.Proxy) error {
	rules := buildOverrideRules(cmd, cfg)
	for _, r := range rules {
		if r.changed() && r.validate != nil {
			if err := r.validate(); err != nil {
				return fmt.Errorf("%s: %w", r.name, err)
			}
		}
	}
	for _, r := range rules {
		if r.changed() {
			r.apply()
		}
	}
	return nil
}
