package books

import "github.com/spf13/cobra"

var BooksCmd = &cobra.Command{
	Use:   "books",
	Short: "Book search and information commands",
	Long:  "Search for books, view details, and browse the catalog",
}
