package library

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your book library",
	Long:  "View all books in your library with reading progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: penpal auth login")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/progress",
			viper.GetString("server.host"),
			viper.GetInt("server.port"))

		req, _ := http.NewRequest("GET", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to get library: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] == true {
			data := result["data"].(map[string]interface{})
			library := data["data"].([]interface{})

			fmt.Printf("\nYour Library (%d books):\n\n", len(library))

			for i, item := range library {
				entry := item.(map[string]interface{})
				book := entry["book"].(map[string]interface{})

				fmt.Printf("%d. %s\n", i+1, book["title"].(string))
				fmt.Printf("   Author: %s\n", book["author"].(string))
				fmt.Printf("   Status: %s\n", entry["status"].(string))
				if page, ok := entry["current_page"].(float64); ok && page > 0 {
					fmt.Printf("   Progress: Page %.0f\n", page)
				}
				if rating, ok := entry["rating"].(float64); ok && rating > 0 {
					fmt.Printf("   Rating: %.0f/5\n", rating)
				}
				fmt.Println()
			}
		} else {
			return fmt.Errorf("failed: %v", result["error"])
		}

		return nil
	},
}

func init() {
	LibraryCmd.AddCommand(listCmd)
}
