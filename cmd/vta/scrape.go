package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hyperjump/vta/internal/discourse"
	"github.com/hyperjump/vta/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const samplePosts = 3

type scrapeOptions struct {
	startDate string
	endDate   string
	category  string
	output    string
	format    string
	archive   bool
	source    string
}

func newScrapeCmd(opts *rootOptions) *cobra.Command {
	so := &scrapeOptions{}
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect Discourse posts within a date range",
		Long: `Collect course forum posts created between --start-date and --end-date
(inclusive, YYYY-MM-DD) and write them to a json, csv or xlsx file.

--source reads candidate posts from an earlier export instead of the built-in
posts. --archive also stores the posts for "vta posts search".`,
		Example: `  vta scrape --start-date 2025-01-01 --end-date 2025-04-14
  vta scrape --start-date 2025-01-01 --end-date 2025-04-14 --format xlsx --archive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts, so)
		},
	}
	cmd.Flags().StringVar(&so.startDate, "start-date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&so.endDate, "end-date", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&so.category, "category", "", "Discourse category (default from config, tds)")
	cmd.Flags().StringVarP(&so.output, "output", "o", "", "output file (default discourse_posts.<format>)")
	cmd.Flags().StringVar(&so.format, "format", string(discourse.FormatJSON), "output format: json, csv or xlsx")
	cmd.Flags().BoolVar(&so.archive, "archive", false, "store and index the posts in the archive")
	cmd.Flags().StringVar(&so.source, "source", "", "read candidate posts from an export file")
	_ = cmd.MarkFlagRequired("start-date")
	_ = cmd.MarkFlagRequired("end-date")
	return cmd
}

func runScrape(cmd *cobra.Command, opts *rootOptions, so *scrapeOptions) error {
	format, err := discourse.ParseFormat(so.format)
	if err != nil {
		return err
	}
	cfg, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	category := so.category
	if category == "" {
		category = cfg.Scraper.Category
	}
	scraperOpts := []discourse.Option{discourse.WithLogger(logger)}
	if so.source != "" {
		scraperOpts = append(scraperOpts, discourse.WithSource(&discourse.FileSource{Path: so.source}))
	}
	scraper := discourse.New(cfg.Scraper.BaseURL, scraperOpts...)

	ctx := cmd.Context()
	posts, err := scraper.ScrapeByDateRange(ctx, so.startDate, so.endDate, category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts found in the specified date range.")
		return nil
	}

	outputFile := so.output
	if outputFile == "" {
		outputFile = discourse.DefaultOutputFile(format)
	}
	if err := writePostsFile(outputFile, posts, format); err != nil {
		return err
	}
	logger.Info("saved posts", zap.String("file", outputFile), zap.Int("count", len(posts)))

	if so.archive {
		if err := archivePosts(cmd, cfg, logger, so, category, posts); err != nil {
			return err
		}
	}

	printScrapeSummary(out, so.startDate, so.endDate, outputFile, posts)
	return nil
}

func writePostsFile(path string, posts []models.Post, format discourse.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := discourse.WritePosts(f, posts, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func printScrapeSummary(w io.Writer, start, end, outputFile string, posts []models.Post) {
	fmt.Fprintln(w, "\nScraping Summary:")
	fmt.Fprintf(w, "Date Range: %s to %s\n", start, end)
	fmt.Fprintf(w, "Posts Found: %d\n", len(posts))
	fmt.Fprintf(w, "Output File: %s\n", outputFile)

	fmt.Fprintln(w, "\nSample Posts:")
	for i, p := range posts {
		if i == samplePosts {
			break
		}
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, p.Title, p.CreatedAt.UTC().Format(time.RFC3339))
	}
}
