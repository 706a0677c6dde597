// Package main is the vta CLI entry point.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hyperjump/vta/internal/cli"
	"github.com/hyperjump/vta/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vta/config.yaml"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "vta",
		Short: "Virtual teaching assistant for the Tools in Data Science course",
		Long: `vta answers course questions from a fixed knowledge corpus, serves the
answer API used by the chat widget, and scrapes and searches Discourse posts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newServerCmd(opts),
		newAskCmd(opts),
		newScrapeCmd(opts),
		newPostsCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vta version %s\n", version)
		},
	}
}

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory wins if it exists; when neither file exists the config
// comes from .env and VTA_* variables alone.
// Returns the config and the path that was actually loaded ("" for environment only).
func loadConfig(path string) (*config.Config, string, error) {
	if path != defaultConfigPath {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	fallback := filepath.Join(cwd, "config.yaml")
	if _, statErr := os.Stat(fallback); statErr == nil {
		cfg, loadErr := config.Load(fallback)
		if loadErr != nil {
			return nil, "", loadErr
		}
		return cfg, fallback, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		cfg, envErr := config.FromEnv(cwd)
		if envErr != nil {
			return nil, "", envErr
		}
		return cfg, "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func parseOutput(s string) (cli.OutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}
