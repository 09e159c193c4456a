package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the current match scoreboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/match/state")
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Flush the pending sync queue to the tournament server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/sync")
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Abandon the current match and discard its queued submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/reset")
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the saved session from the tournament server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/restore")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
