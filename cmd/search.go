package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/pathutil"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"s"},
	Short:   "Fuzzy search notes by filename and content.",
	Long: heredoc.Doc(`
		Ranks every note against the query using subsequence matching.
		Filename matches always list before content matches. A query
		starting with '#' filters by tag instead.
	`),
	Example: heredoc.Doc(`
		nota search milk
		nota search "#work"
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}

		results := snapshot.Search(strings.Join(args, " "))
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}

		for _, result := range results {
			rel := result.Path
			if r, err := pathutil.VaultRelative(s.Vault, result.Path); err == nil {
				rel = r
			}
			fmt.Printf("%-10s %s\t%s\n", result.Kind, rel, result.Title)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().
		IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results to show")
	rootCmd.AddCommand(searchCmd)
}
