package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hyperjump/vta/internal/cli"
	"github.com/hyperjump/vta/internal/storage"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var (
		serverURL string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show corpus and archive status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(output)
			if err != nil {
				return err
			}
			var status *cli.Status
			if serverURL != "" {
				status, err = statusViaHTTP(cmd.Context(), serverURL)
			} else {
				status, err = statusLocal(cmd.Context(), opts)
			}
			if err != nil {
				return fmt.Errorf("status failed: %w", err)
			}
			return cli.WriteStatus(cmd.OutOrStdout(), status, format)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL (empty = read local config and archive)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func statusLocal(ctx context.Context, opts *rootOptions) (*cli.Status, error) {
	cfg, logger, err := setup(opts)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, !cfg.Storage.Disabled)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	res := components.Assistant.Resolver()
	status := &cli.Status{
		CorpusEntries:  res.EntryCount(),
		Categories:     res.CategoryCount(),
		CorpusSource:   components.CorpusSource,
		ArchiveEnabled: components.ArchiveEnabled(),
	}
	if !status.ArchiveEnabled {
		return status, nil
	}

	if status.Posts, err = components.Storage.CountPosts(ctx); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if status.ScrapeRuns, err = components.Storage.CountRuns(ctx); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	if status.IndexedPosts, err = components.KeywordIndex.DocCount(); err != nil {
		return nil, fmt.Errorf("count indexed posts: %w", err)
	}
	status.DatabasePath = cfg.Storage.DatabasePath
	status.BleveIndexPath = cfg.Storage.BleveIndexPath
	if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath); err == nil {
		status.DiskUsageBytes = diskBytes
	}
	return status, nil
}

func statusViaHTTP(ctx context.Context, serverURL string) (*cli.Status, error) {
	endpoint := strings.TrimRight(serverURL, "/") + "/api/v1/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: clientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}
	var s cli.Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if s.CorpusSource == "" {
		s.CorpusSource = serverURL
	}
	return &s, nil
}
