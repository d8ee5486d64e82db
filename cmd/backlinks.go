package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/pathutil"
)

var backlinksCmd = &cobra.Command{
	Use:     "backlinks <note>",
	Aliases: []string{"bl"},
	Short:   "List the notes that link to a note.",
	Long: heredoc.Doc(`
		Resolves the note by title, stem, or relative path and prints every
		note whose wiki-links point at it.
	`),
	Example: heredoc.Doc(`
		nota backlinks "Other Note"
		nota backlinks projects/roadmap.md
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}

		path, err := snapshot.Resolve(args[0])
		if err != nil {
			return err
		}

		refs := snapshot.Backlinks(path)
		if len(refs) == 0 {
			fmt.Println("no backlinks")
			return nil
		}
		for _, ref := range refs {
			rel := ref
			if r, err := pathutil.VaultRelative(s.Vault, ref); err == nil {
				rel = r
			}
			fmt.Println(rel)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backlinksCmd)
}
