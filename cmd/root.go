package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exhibition",
	Short: "Exhibition lifecycle and placement service",
	Long:  `Manages exhibition lifecycles, object placements, storylines, events and checklists for the cataloguing platform`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
