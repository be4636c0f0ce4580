package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import reading history",
	Long:  "Import books and reading history from external services",
}

var goodreadsCmd = &cobra.Command{
	Use:   "goodreads <export.csv>",
	Short: "Import a Goodreads CSV export",
	Long:  "Upload a Goodreads library export and import its books, shelves, and ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: penpal auth login")
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			return fmt.Errorf("failed to build upload: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		writer.Close()

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/import/goodreads",
			viper.GetString("server.host"),
			viper.GetInt("server.port"))

		req, _ := http.NewRequest("POST", serverURL, &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] == true {
			report := result["data"].(map[string]interface{})

			fmt.Println("✓ Import complete!")
			fmt.Printf("  Rows processed: %.0f\n", report["total_rows"].(float64))
			fmt.Printf("  Books created: %.0f\n", report["books_created"].(float64))
			fmt.Printf("  Books matched: %.0f\n", report["books_matched"].(float64))
			fmt.Printf("  Progress records: %.0f\n", report["progress_upserted"].(float64))
			fmt.Printf("  Skipped: %.0f\n", report["skipped"].(float64))

			if errors, ok := report["errors"].([]interface{}); ok && len(errors) > 0 {
				fmt.Printf("\n%d rows had problems:\n", len(errors))
				for _, e := range errors {
					fmt.Printf("  - %v\n", e)
				}
			}
		} else {
			return fmt.Errorf("import failed: %v", result["error"])
		}

		return nil
	},
}

func init() {
	ImportCmd.AddCommand(goodreadsCmd)
}
