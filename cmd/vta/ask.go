package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hyperjump/vta/internal/cli"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/resolver"
	"github.com/spf13/cobra"
)

const clientTimeout = 2 * time.Minute

type askOptions struct {
	serverURL string
	imagePath string
	output    string
	explain   bool
	noWait    bool
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	ao := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [flags] <question...>",
		Short: "Ask the assistant a question",
		Long: `Ask the assistant a question. The question is all remaining arguments joined
by spaces, so quoting is optional.

Without --server the question is answered locally, including the simulated
processing delay (skip it with --no-wait).`,
		Example: `  vta ask How do I submit GA4
  vta ask --explain "docker or podman?"
  vta ask --server http://localhost:8000 --image screenshot.png "what does this error mean"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, ao, buildQuery(args))
		},
	}
	cmd.Flags().StringVar(&ao.serverURL, "server", "", "server URL (empty = answer locally)")
	cmd.Flags().StringVar(&ao.imagePath, "image", "", "image file to attach")
	cmd.Flags().StringVarP(&ao.output, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&ao.explain, "explain", false, "show which resolver stage produced the answer")
	cmd.Flags().BoolVar(&ao.noWait, "no-wait", false, "skip the simulated processing delay")
	return cmd
}

// buildQuery joins positional args with spaces so multi-word questions work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk(cmd *cobra.Command, opts *rootOptions, ao *askOptions, question string) error {
	format, err := parseOutput(ao.output)
	if err != nil {
		return err
	}
	if ao.explain && ao.serverURL != "" {
		return errors.New("--explain is only available for local answers")
	}

	req := &models.QuestionRequest{Question: question}
	if ao.imagePath != "" {
		data, err := os.ReadFile(ao.imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		req.Image = &encoded
	}

	out := cmd.OutOrStdout()
	var sp *cli.Spinner
	if format == cli.OutputText {
		sp = cli.NewSpinner(cmd.ErrOrStderr(), "Processing...")
		sp.Start()
	}
	stopSpinner := func() {
		if sp != nil {
			sp.Stop()
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if ao.serverURL != "" {
		answer, err := askViaHTTP(ctx, ao.serverURL, req)
		stopSpinner()
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}
		result := models.QueryResult{Question: req.Question, Answer: answer.Answer, Links: answer.Links}
		return cli.WriteAnswer(out, result, nil, format)
	}

	cfg, logger, err := setup(opts)
	if err != nil {
		stopSpinner()
		return err
	}
	defer logger.Sync()
	if ao.noWait {
		cfg.Assistant.SimulatedLatency = 0
	}
	svc, _, err := newAssistant(cfg, logger)
	if err != nil {
		stopSpinner()
		return err
	}

	result, err := svc.AskResult(ctx, req)
	stopSpinner()
	if err != nil {
		return err
	}
	var match *resolver.Match
	if ao.explain {
		_, m := svc.Explain(req.Question)
		match = &m
	}
	return cli.WriteAnswer(out, result, match, format)
}

// askViaHTTP posts req to the answer endpoint of a running server.
func askViaHTTP(ctx context.Context, serverURL string, req *models.QuestionRequest) (*models.AnswerResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(serverURL, "/") + "/api/"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: clientTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}
	var answer models.AnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &answer, nil
}

// responseError turns a non-200 response into an error, preferring the API's
// "detail" message over the raw body.
func responseError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(b, &apiErr) == nil && apiErr.Detail != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Detail)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}
