package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:     "tags",
	Short:   "List every tag in the vault with its note count.",
	Example: "nota tags",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}

		counts := snapshot.Tags()
		if len(counts) == 0 {
			fmt.Println("no tags")
			return nil
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("#%s\t%d\n", name, counts[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
