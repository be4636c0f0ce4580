package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active reading session",
	Long:  "Complete a reading session, recording pages read and collecting XP and streak updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session-id")
		endPage, _ := cmd.Flags().GetInt("end-page")
		pagesRead, _ := cmd.Flags().GetInt("pages")

		if sessionID == "" {
			return fmt.Errorf("--session-id is required")
		}

		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: penpal auth login")
		}

		body := map[string]interface{}{}
		if cmd.Flags().Changed("end-page") {
			body["end_page"] = endPage
		}
		if pagesRead > 0 {
			body["pages_read"] = pagesRead
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/reading-session/session/%s/end",
			viper.GetString("server.host"),
			viper.GetInt("server.port"),
			sessionID)

		req, _ := http.NewRequest("POST", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] == true {
			data := result["data"].(map[string]interface{})

			fmt.Printf("✓ Reading session completed!\n")
			if session, ok := data["session"].(map[string]interface{}); ok {
				if minutes, ok := session["duration_minutes"].(float64); ok {
					fmt.Printf("  Duration: %.0f minutes\n", minutes)
				}
				if pages, ok := session["pages_read"].(float64); ok {
					fmt.Printf("  Pages read: %.0f\n", pages)
				}
			}
			if xp, ok := data["xp_awarded"].(float64); ok {
				fmt.Printf("  XP awarded: %.0f\n", xp)
			}
			if streak, ok := data["streak"].(float64); ok {
				fmt.Printf("  Streak: %.0f days\n", streak)
			}
			if unlocked, ok := data["achievements_unlocked"].([]interface{}); ok && len(unlocked) > 0 {
				fmt.Println("\n🏆 Achievements unlocked:")
				for _, a := range unlocked {
					fmt.Printf("  ✓ %v\n", a)
				}
			}
		} else {
			return fmt.Errorf("failed: %v", result["error"])
		}

		return nil
	},
}

func init() {
	endCmd.Flags().String("session-id", "", "Session ID (required)")
	endCmd.Flags().Int("end-page", 0, "Page you stopped on")
	endCmd.Flags().Int("pages", 0, "Pages read this session")
	endCmd.MarkFlagRequired("session-id")
	SessionCmd.AddCommand(endCmd)
}
