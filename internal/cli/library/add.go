package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to your library",
	Long:  "Add a book to your library with optional status and current page",
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, _ := cmd.Flags().GetString("book-id")
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		rating, _ := cmd.Flags().GetInt("rating")

		if bookID == "" {
			return fmt.Errorf("--book-id is required")
		}

		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: penpal auth login")
		}

		body := map[string]interface{}{
			"book_id": bookID,
			"status":  status,
		}
		if cmd.Flags().Changed("page") {
			body["current_page"] = page
		}
		if rating > 0 {
			body["rating"] = rating
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/progress",
			viper.GetString("server.host"),
			viper.GetInt("server.port"))

		req, _ := http.NewRequest("PUT", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to add book: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] == true {
			fmt.Printf("✓ Book added to library\n")
			fmt.Printf("  Book ID: %s\n", bookID)
			fmt.Printf("  Status: %s\n", status)
			if cmd.Flags().Changed("page") {
				fmt.Printf("  Current page: %d\n", page)
			}
		} else {
			return fmt.Errorf("failed: %v", result["error"])
		}

		return nil
	},
}

func init() {
	addCmd.Flags().String("book-id", "", "Book ID (required)")
	addCmd.Flags().String("status", "want_to_read", "Status (want_to_read, currently_reading, finished)")
	addCmd.Flags().Int("page", 0, "Current page")
	addCmd.Flags().Int("rating", 0, "Rating (1-5)")
	addCmd.MarkFlagRequired("book-id")
	LibraryCmd.AddCommand(addCmd)
}
