// Command sentiment-cli is a small terminal client for the
// sentiment-engine HTTP API.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL     string
	timeout       time.Duration
	enhanced      bool
	probabilities bool
	provider      string
	batchFile     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sentiment-cli",
		Short:         "Client for the sentiment-engine API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Base URL of the sentiment-engine server")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	predict := &cobra.Command{
		Use:   "predict [text]",
		Short: "Classify a single text",
		Args:  cobra.ExactArgs(1),
		RunE:  runPredict,
	}
	predict.Flags().BoolVar(&enhanced, "enhanced", false, "Request LLM-enhanced analysis")
	predict.Flags().BoolVar(&probabilities, "probabilities", false, "Include class probabilities")
	predict.Flags().StringVar(&provider, "provider", "", "LLM provider: groq or gemini (default auto)")

	batch := &cobra.Command{
		Use:   "batch [text]...",
		Short: "Classify several texts in one request",
		Args:  cobra.ArbitraryArgs,
		RunE:  runBatch,
	}
	batch.Flags().BoolVar(&enhanced, "enhanced", false, "Request batch insights")
	batch.Flags().StringVar(&provider, "provider", "", "LLM provider: groq or gemini (default auto)")
	batch.Flags().StringVar(&batchFile, "file", "", "Read texts from a file, one per line")

	root.AddCommand(
		predict,
		batch,
		&cobra.Command{
			Use:   "health",
			Short: "Show server health",
			Args:  cobra.NoArgs,
			RunE:  runHealth,
		},
		&cobra.Command{
			Use:   "metrics",
			Short: "Show service metrics",
			Args:  cobra.NoArgs,
			RunE:  runMetrics,
		},
		&cobra.Command{
			Use:   "reset-metrics",
			Short: "Reset the service counters",
			Args:  cobra.NoArgs,
			RunE:  runResetMetrics,
		},
	)
	return root
}

func runPredict(_ *cobra.Command, args []string) error {
	payload := map[string]any{
		"text":                 args[0],
		"return_probabilities": probabilities,
		"enhanced":             enhanced,
	}
	if provider != "" {
		payload["llm_provider"] = provider
	}
	return call(http.MethodPost, "/api/v1/predict", payload)
}

func runBatch(_ *cobra.Command, args []string) error {
	texts := append([]string(nil), args...)
	if batchFile != "" {
		fromFile, err := readLines(batchFile)
		if err != nil {
			return err
		}
		texts = append(texts, fromFile...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no texts given: pass them as arguments or via --file")
	}

	payload := map[string]any{
		"texts":    texts,
		"enhanced": enhanced,
	}
	if provider != "" {
		payload["llm_provider"] = provider
	}
	return call(http.MethodPost, "/api/v1/predict/batch", payload)
}

func runHealth(_ *cobra.Command, _ []string) error {
	return call(http.MethodGet, "/health", nil)
}

func runMetrics(_ *cobra.Command, _ []string) error {
	return call(http.MethodGet, "/metrics", nil)
}

func runResetMetrics(_ *cobra.Command, _ []string) error {
	return call(http.MethodPost, "/api/v1/metrics/reset", nil)
}

// call performs the request and pretty-prints the JSON response.
func call(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimRight(serverURL, "/")+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(strings.TrimSpace(string(data)))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
