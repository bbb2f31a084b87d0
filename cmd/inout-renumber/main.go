// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the inout-renumber CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/inout-renumber/internal/journal"
	"github.com/pdiddy/inout-renumber/internal/process"
	"github.com/pdiddy/inout-renumber/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE and synced in PersistentPostRun.
var logger *zap.Logger

// rootCmd is the base command for the inout-renumber CLI.
var rootCmd = &cobra.Command{
	Use:   "inout-renumber [files...]",
	Short: "Renumber In [n]: / Out[n]: console prompts in text",
	Long: `inout-renumber rewrites the cell numbers of interactive console prompts
("In [n]:" and "Out[n]:") so that an edited or concatenated transcript counts
up from 1 again.

Every "In [...]:" takes the next number; every "Out[...]:" repeats the number
of the last In. An In payload starting with "^" sets the counter instead:
"In [^20]:" becomes "In [20]:" and "In [^]:" becomes "In [1]:".

With no arguments standard input is renumbered as one transcript. Each file
argument is renumbered on its own, starting from zero.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRenumber,
}

func runRenumber(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx := cmd.Context()

	var rec process.Recorder
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer store.Close()
		rec = store
		log.Debug("journal enabled", zap.String("path", store.Path()))
	}

	runner := process.New(cfg.Runner, log, rec)

	var result process.BatchResult
	if len(args) == 0 {
		run, err := runner.Stream(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		result.Add(run)
	} else {
		result = runner.Files(ctx, args, cmd.OutOrStdout())
	}

	if err := process.WriteSummary(cmd.ErrOrStderr(), cfg.Runner.Summary, result); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed", result.Failed, result.Total())
	}
	return nil
}

// loadConfig merges flags, environment and config file into a types.Config.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	mode := types.Mode(viper.GetString("runner.mode"))
	if list, _ := cmd.Flags().GetBool("list"); list {
		mode = types.ModeList
	}
	if write, _ := cmd.Flags().GetBool("write"); write {
		mode = types.ModeWrite
	}
	switch mode {
	case "", types.ModePrint, types.ModeList, types.ModeWrite:
	default:
		return types.Config{}, fmt.Errorf("unsupported mode %q: use print, list or write", mode)
	}

	summary := types.SummaryFormat(viper.GetString("runner.summary"))
	switch summary {
	case types.SummaryNone, types.SummaryYAML, types.SummaryJSON:
	default:
		return types.Config{}, fmt.Errorf("unsupported summary format %q: use yaml or json", summary)
	}

	cfg := types.Config{
		Verbose: viper.GetBool("verbose"),
		Runner: types.RunnerConfig{
			Mode:    mode,
			Summary: summary,
		},
		Journal: journalConfig(),
	}
	return cfg, nil
}

func journalConfig() types.JournalConfig {
	return types.JournalConfig{
		Path:       viper.GetString("journal.path"),
		MaxResults: viper.GetInt("journal.max_results"),
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./inout-renumber.yaml or ~/.config/inout-renumber/inout-renumber.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("journal", "", "SQLite file recording one row per processed source")

	rootCmd.Flags().BoolP("list", "l", false, "list files whose prompts would be renumbered")
	rootCmd.Flags().BoolP("write", "w", false, "rewrite files in place instead of printing them")
	rootCmd.Flags().String("summary", "", "print a run summary to stderr: yaml or json")
	rootCmd.MarkFlagsMutuallyExclusive("list", "write")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("inout-renumber")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "inout-renumber"))
		}
	}

	viper.SetDefault("runner.mode", string(types.ModePrint))
	viper.SetDefault("journal.max_results", 20)
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("journal.path", rootCmd.PersistentFlags().Lookup("journal"))
	viper.BindPFlag("runner.summary", rootCmd.Flags().Lookup("summary"))

	viper.SetEnvPrefix("INOUT_RENUMBER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// After the first signal, a second one terminates the process.
	context.AfterFunc(ctx, stop)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
