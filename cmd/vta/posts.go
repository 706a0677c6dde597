package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hyperjump/vta/internal/cli"
	"github.com/hyperjump/vta/internal/config"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/search"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errArchiveDisabled = errors.New("the post archive is disabled (storage.disabled)")

func newPostsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Search and maintain the archived Discourse posts",
	}
	cmd.AddCommand(newPostsSearchCmd(opts), newPostsReindexCmd(opts))
	return cmd
}

func newPostsSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		limit     int
		serverURL string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "search [flags] <query...>",
		Short: "Full-text search over archived posts",
		Example: `  vta posts search docker
  vta posts search --limit 3 --output json "GA5 deadline"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(output)
			if err != nil {
				return err
			}
			query := buildQuery(args)

			var response *models.PostSearchResponse
			if serverURL != "" {
				response, err = searchViaHTTP(cmd.Context(), serverURL, query, limit)
			} else {
				response, err = searchLocal(cmd.Context(), opts, query, limit)
			}
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return cli.WriteSearchResults(cmd.OutOrStdout(), response, format)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "number of results")
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL (empty = open the archive directly)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func newPostsReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the keyword index from the archive database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()
			if cfg.Storage.Disabled {
				return errArchiveDisabled
			}
			components, err := initializeComponents(cfg, logger, true)
			if err != nil {
				return err
			}
			defer components.Close()

			n, err := components.Indexer.Reindex(cmd.Context())
			if err != nil {
				return fmt.Errorf("reindex failed: %w", err)
			}
			if err := components.Engine.RefreshSuggestions(); err != nil {
				logger.Warn("failed to refresh suggestions", zap.Error(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d post(s)\n", n)
			return nil
		},
	}
}

func searchLocal(ctx context.Context, opts *rootOptions, query string, limit int) (*models.PostSearchResponse, error) {
	cfg, logger, err := setup(opts)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	if cfg.Storage.Disabled {
		return nil, errArchiveDisabled
	}
	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		return nil, err
	}
	defer components.Close()
	return components.Engine.SearchPosts(ctx, query, limit)
}

func searchViaHTTP(ctx context.Context, serverURL, query string, limit int) (*models.PostSearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := strings.TrimRight(serverURL, "/") + "/api/v1/posts/search?" + params.Encode()

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
	var response models.PostSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// archivePosts records a scrape run and indexes its posts.
func archivePosts(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, so *scrapeOptions, category string, posts []models.Post) error {
	if cfg.Storage.Disabled {
		return errArchiveDisabled
	}
	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer components.Close()

	run := &models.ScrapeRun{
		StartDate: so.startDate,
		EndDate:   so.endDate,
		Category:  category,
	}
	if err := components.Indexer.IndexRun(cmd.Context(), run, posts); err != nil {
		return fmt.Errorf("failed to archive posts: %w", err)
	}
	if err := components.Engine.RefreshSuggestions(); err != nil {
		logger.Warn("failed to refresh suggestions", zap.Error(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Archived %d post(s) as run %s\n", run.PostCount, run.ID)
	return nil
}
