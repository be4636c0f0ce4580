package session

import "github.com/spf13/cobra"

var SessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage reading sessions",
	Long:  "Start and end timed reading sessions that earn XP and extend your streak",
}
