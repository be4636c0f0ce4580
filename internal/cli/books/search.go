package books

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for books",
	Long:  "Search the book catalog by title or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		limit, _ := cmd.Flags().GetInt("limit")
		author, _ := cmd.Flags().GetString("author")

		// Build query
		params := url.Values{}
		params.Set("query", query)
		params.Set("limit", fmt.Sprintf("%d", limit))
		if author != "" {
			params.Set("author", author)
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/books/search?%s",
			viper.GetString("server.host"),
			viper.GetInt("server.port"),
			params.Encode())

		resp, err := http.Get(serverURL)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("search failed")
		}

		data := result["data"].(map[string]interface{})
		books := data["data"].([]interface{})
		total := data["total"].(float64)

		fmt.Printf("\nFound %d results:\n\n", int(total))

		for i, b := range books {
			item := b.(map[string]interface{})
			fmt.Printf("%d. %s\n", i+1, item["title"].(string))
			fmt.Printf("   Author: %s\n", item["author"].(string))
			if pages, ok := item["total_pages"].(float64); ok && pages > 0 {
				fmt.Printf("   Pages: %.0f\n", pages)
			}
			if year, ok := item["published_year"].(float64); ok && year > 0 {
				fmt.Printf("   Published: %.0f\n", year)
			}
			fmt.Printf("   ID: %s\n\n", item["id"].(string))
		}

		return nil
	},
}

func init() {
	searchCmd.Flags().Int("limit", 10, "Number of results")
	searchCmd.Flags().String("author", "", "Filter by author")
	BooksCmd.AddCommand(searchCmd)
}
