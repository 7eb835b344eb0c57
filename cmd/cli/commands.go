package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	dryRun       bool
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "How many games to show")
	housekeepingCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without publishing anything")

	rootCmd.AddCommand(healthCmd, stateCmd, statsCmd, historyCmd, metricsCmd)
	rootCmd.AddCommand(joinCmd, leaveCmd, waitCmd, nextCmd, startCmd, endCmd)
	rootCmd.AddCommand(scheduleCmd, skillCmd, bulkCmd, settingsCmd, resetCmd, housekeepingCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the queue, courts and rentals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/state", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show game statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently finished games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, fmt.Sprintf("/history?limit=%d", historyLimit), nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <name>",
	Short: "Add a player to the back of the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/queue", map[string]string{"name": strings.Join(args, " ")})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <index>",
	Short: "Remove the queue entry at a zero-based position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be a number: %w", err)
		}
		return performRequest(http.MethodDelete, fmt.Sprintf("/queue/%d", index), nil)
	},
}

var waitCmd = &cobra.Command{
	Use:   "wait <index>",
	Short: "Estimate the wait for a queue position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/queue/wait/"+args[0], nil)
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Preview who plays next and where",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/next", nil)
	},
}

var startCmd = &cobra.Command{
	Use:   "start [court]",
	Short: "Start the next game, on a specific court if given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return performRequest(http.MethodPost, "/next/start", nil)
		}
		return performRequest(http.MethodPost, "/courts/"+args[0]+"/start", nil)
	},
}

var endCmd = &cobra.Command{
	Use:   "end <court>",
	Short: "End the game on a court and rotate its players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/courts/"+args[0]+"/end", nil)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <court> <hours> [renter]",
	Short: "Rent a court out of rotation",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("hours must be a number: %w", err)
		}
		body := map[string]any{"hours": hours}
		if len(args) == 3 {
			body["rented_by"] = args[2]
		}
		return performRequest(http.MethodPost, "/courts/"+args[0]+"/schedule", body)
	},
}

var skillCmd = &cobra.Command{
	Use:   "skill <level> <name>",
	Short: "Set a player's skill level",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/players/skill", map[string]string{
			"level": args[0],
			"name":  strings.Join(args[1:], " "),
		})
	},
}

var bulkCmd = &cobra.Command{
	Use:   "register <name>...",
	Short: "Register players without queueing them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/players/bulk", map[string][]string{"names": args})
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings <json>",
	Short: `Patch settings, e.g. '{"num_courts":3}'`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch map[string]any
		if err := json.Unmarshal([]byte(args[0]), &patch); err != nil {
			return fmt.Errorf("settings must be a JSON object: %w", err)
		}
		return performRequest(http.MethodPatch, "/settings", patch)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the queue, courts, players and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/reset", nil)
	},
}

var housekeepingCmd = &cobra.Command{
	Use:   "housekeeping",
	Short: "Run one rental-warning and up-next pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, fmt.Sprintf("/housekeeping?dry_run=%t", dryRun), nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
