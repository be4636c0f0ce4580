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

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a reading session",
	Long:  "Start a timed reading session for a book. Only one session can be active at a time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, _ := cmd.Flags().GetString("book-id")
		page, _ := cmd.Flags().GetInt("page")
		mood, _ := cmd.Flags().GetString("mood")
		device, _ := cmd.Flags().GetString("device")

		if bookID == "" {
			return fmt.Errorf("--book-id is required")
		}

		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: penpal auth login")
		}

		body := map[string]interface{}{
			"book_id":    bookID,
			"start_page": page,
		}
		if mood != "" {
			body["mood"] = mood
		}
		if device != "" {
			body["device"] = device
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/reading-session/session/start",
			viper.GetString("server.host"),
			viper.GetInt("server.port"))

		req, _ := http.NewRequest("POST", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] == true {
			data := result["data"].(map[string]interface{})
			session := data["session"].(map[string]interface{})

			fmt.Printf("✓ Reading session started\n")
			fmt.Printf("  Session ID: %s\n", session["id"].(string))
			fmt.Printf("  Book ID: %s\n", bookID)
			fmt.Printf("  Start page: %d\n", page)
			fmt.Println("\nNext: penpal session end --session-id " + session["id"].(string))
		} else {
			return fmt.Errorf("failed: %v", result["error"])
		}

		return nil
	},
}

func init() {
	startCmd.Flags().String("book-id", "", "Book ID (required)")
	startCmd.Flags().Int("page", 0, "Starting page")
	startCmd.Flags().String("mood", "", "Mood (relaxed, focused, excited, tired, stressed, motivated)")
	startCmd.Flags().String("device", "", "Device (physical, ereader, phone, tablet, audiobook)")
	startCmd.MarkFlagRequired("book-id")
	SessionCmd.AddCommand(startCmd)
}
