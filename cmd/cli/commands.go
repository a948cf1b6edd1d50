package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var (
	roundID      string
	dryRun       bool
	sheetPath    string
	roundPath    string
	exportFormat string
	outPath      string
)

func init() {
	submitCmd.Flags().StringVar(&roundPath, "file", "round.json", "JSON file with the round submission")
	processCmd.Flags().StringVar(&roundID, "round", "", "Process a single round by ID")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without persisting anything")
	leaderboardCmd.Flags().StringVar(&roundID, "round", "", "Round to show (defaults to the latest settled round)")
	announceCmd.Flags().StringVar(&roundID, "round", "", "Round to announce (defaults to the latest settled round)")
	exportCmd.Flags().StringVar(&roundID, "round", "", "Round to export (defaults to the latest settled round)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format: csv or xlsx")
	exportCmd.Flags().StringVar(&outPath, "out", "", "Output file (defaults to leaderboard.<format>)")
	importPlayersCmd.Flags().StringVar(&sheetPath, "file", "players.csv", "CSV file with the player registry")
	importCoursesCmd.Flags().StringVar(&sheetPath, "file", "courses.csv", "CSV file with course hole data")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importPlayersCmd)
	rootCmd.AddCommand(importCoursesCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the known courses and their areas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/courses")
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List the stored rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/rounds")
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a round from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostFile("/rounds/submit", roundPath, "application/json")
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the settlement pipeline over pending rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if roundID != "" {
			params.Set("roundID", roundID)
		}
		if dryRun {
			params.Set("dry_run", "true")
		}
		endpoint := "/process"
		if len(params) > 0 {
			endpoint += "?" + params.Encode()
		}
		return performGetRequest(endpoint)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard of a settled round",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/leaderboard"
		if roundID != "" {
			endpoint += "?roundID=" + url.QueryEscape(roundID)
		}
		return performGetRequest(endpoint)
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the leaderboard of a settled round to the Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/notify/leaderboard"
		if roundID != "" {
			endpoint += "?roundID=" + url.QueryEscape(roundID)
		}
		return performGetRequest(endpoint)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the leaderboard of a settled round",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "xlsx" {
			return fmt.Errorf("unknown export format %q", exportFormat)
		}
		endpoint := "/export/leaderboard." + exportFormat
		if roundID != "" {
			endpoint += "?roundID=" + url.QueryEscape(roundID)
		}
		target := outPath
		if target == "" {
			target = "leaderboard." + exportFormat
		}
		return performDownload(endpoint, target)
	},
}

var importPlayersCmd = &cobra.Command{
	Use:   "import-players",
	Short: "Upload a player registry CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostFile("/import/players", sheetPath, "text/csv")
	},
}

var importCoursesCmd = &cobra.Command{
	Use:   "import-courses",
	Short: "Upload a course hole data CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostFile("/import/courses", sheetPath, "text/csv")
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performDownload(endpoint, target string) error {
	url := host + endpoint
	fmt.Printf("Downloading %s to %s\n", url, target)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	fmt.Printf("Wrote %d bytes.\n", n)
	return nil
}

func performPostFile(endpoint, path, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	url := host + endpoint
	fmt.Printf("Uploading %s to %s\n", path, url)

	resp, err := http.Post(url, contentType, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
