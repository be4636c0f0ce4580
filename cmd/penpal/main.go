package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msrishav-28/penpal/internal/cli/auth"
	"github.com/msrishav-28/penpal/internal/cli/books"
	cliconfig "github.com/msrishav-28/penpal/internal/cli/config"
	"github.com/msrishav-28/penpal/internal/cli/importer"
	"github.com/msrishav-28/penpal/internal/cli/library"
	"github.com/msrishav-28/penpal/internal/cli/session"
)

var rootCmd = &cobra.Command{
	Use:   "penpal",
	Short: "Penpal command line client",
	Long:  "Track your reading, manage your library, and keep your streak alive from the terminal",
}

func initConfig() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigFile(filepath.Join(home, ".penpal", "config.yaml"))
	// Missing config just means not logged in yet
	viper.ReadInConfig()
}

func main() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "", "Server host override")
	rootCmd.PersistentFlags().Int("port", 0, "Server port override")
	viper.BindPFlag("server.host", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("server.port", rootCmd.PersistentFlags().Lookup("port"))

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(books.BooksCmd)
	rootCmd.AddCommand(library.LibraryCmd)
	rootCmd.AddCommand(session.SessionCmd)
	rootCmd.AddCommand(importer.ImportCmd)
	rootCmd.AddCommand(cliconfig.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
