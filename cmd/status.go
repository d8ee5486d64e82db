package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the vault location and index health.",
	Example: "nota status",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		fmt.Printf("vault: %s\n", s.Vault)
		fmt.Printf("index: %s\n", s.StatusLine())

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}
		for _, w := range snapshot.Warnings() {
			fmt.Printf("warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
