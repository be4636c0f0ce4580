package library

import "github.com/spf13/cobra"

var LibraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage your book library",
	Long:  "Add, update, and view books in your personal library",
}
