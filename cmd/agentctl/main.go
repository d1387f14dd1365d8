// Package main implements agentctl, a command-line client for the tracker's AI agent endpoint.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agentcommand/tracker/internal/pkg/agent"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	server  string
	token   string
	timeout time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "agentctl",
		Short: "CLI for the tracker AI agent",
		Long: `agentctl sends actions to a running tracker's /api/v1/agent endpoint.

Examples:
  # Summarize a file
  agentctl summarize-text notes.txt

  # Summarize a web page
  agentctl summarize-url https://example.com/admissions

  # Draft a university record from its admissions page
  agentctl extract-university https://www.acadiau.ca/admissions`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("AGENT_SERVER", "http://localhost:8080"), "tracker server URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("AGENT_TOKEN"), "bearer token for /api/v1")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "request timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "summarize-text [file]",
			Short: "Summarize a file or stdin",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := readInput(cmd.InOrStdin(), args)
				if err != nil {
					return err
				}
				out, err := opts.client().SummarizeText(cmd.Context(), text)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "summarize-url <url>",
			Short: "Summarize a web page",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := opts.client().SummarizeURL(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "extract-university <url>",
			Short: "Print a university record read from an admissions page as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := opts.client().ExtractUniversityInfo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				u.WebsiteURL = args[0]
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(u)
			},
		},
	)
	return root
}

func (o *cliOptions) client() *agent.Client {
	endpoint := strings.TrimRight(o.server, "/") + "/api/v1/agent"
	return agent.NewClient(agent.NewHTTPInvoker(endpoint, o.token, o.timeout))
}

// readInput reads the named file, or stdin when no file or "-" is given
func readInput(stdin io.Reader, args []string) (string, error) {
	var (
		content []byte
		err     error
	)
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", fmt.Errorf("no text to summarize")
	}
	return text, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
