package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/config"
)

var (
	version        = "dev"
	envKeyReplacer = strings.NewReplacer(".", "_")
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "budget",
		Short: "📊 Personal budget dashboard",
		Long: `budget resolves dashboard periods into calendar ranges and aggregates
transactions into an income statement over a tree of income and expense
categories.

Data is loaded for each invocation from the built-in sample set, a category
outline or JSON file, and transaction files (JSON, CSV, OFX or QFX).
Nothing is written back.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: $HOME/.config/budget/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("today", "", "reference date as YYYY-MM-DD (default: the current date)")
	flags.String("categories", "", "category outline (.txt) or JSON (.json) file")
	flags.StringSlice("transactions", nil, "transaction files (.json, .csv, .ofx, .qfx)")
	flags.Bool("sample", false, "load the built-in sample data")
	flags.String("format", "table", "output format (table, json)")
	flags.Bool("color", true, "colorize table output")

	bindFlags(root, map[string]string{
		"logging.level":        "log-level",
		"logging.format":       "log-format",
		"dashboard.today":      "today",
		"data.categories_file": "categories",
		"data.transactions":    "transactions",
		"data.sample":          "sample",
		"output.format":        "format",
		"output.color":         "color",
	}, true)

	root.AddCommand(statementCmd())
	root.AddCommand(periodsCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(transactionsCmd())
	root.AddCommand(importCmd())
	root.AddCommand(versionCmd())

	return root
}

// bindFlags binds viper keys to the named flags of cmd.
func bindFlags(cmd *cobra.Command, keys map[string]string, persistent bool) {
	set := cmd.Flags()
	if persistent {
		set = cmd.PersistentFlags()
	}
	for key, name := range keys {
		if err := viper.BindPFlag(key, set.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func main() {
	handler := cli.NewInterruptHandler(os.Stderr, "Nothing was written; changes only live for one run.")
	ctx, stop := handler.HandleInterrupts(context.Background())

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !handler.WasInterrupted() {
			fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		}
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/budget", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BUDGET")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return common.NewUserError("Could not read the config file", err)
		}
	}

	config.SetDefaults(viper.GetViper())
	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.Debug("configuration loaded", "file", viper.ConfigFileUsed())

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "budget %s\n", version)
		},
	}
}
