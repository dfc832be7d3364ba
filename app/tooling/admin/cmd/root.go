// Package cmd contains the admin commands for talking to a node.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	nodeURL string
	timeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node public api.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "Max time to wait for the node.")
}

var rootCmd = &cobra.Command{
	Use:          "admin",
	Short:        "Administer a ledger node",
	SilenceUsage: true,
}

// Execute runs the command specified on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

// call sends the request to the node and writes the indented JSON response
// to the command output.
func call(cmd *cobra.Command, method string, path string, dataSend any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, nodeURL+path, body)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if len(data) > 0 {
		if err := json.Indent(&out, data, "", "  "); err != nil {
			out.Write(data)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("node returned status %d", resp.StatusCode)
	}

	return nil
}
