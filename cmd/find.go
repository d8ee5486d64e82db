package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/fzf"
)

var findCmd = &cobra.Command{
	Use:     "find [query]",
	Aliases: []string{"f"},
	Short:   "Interactively pick a note with a live preview.",
	Long: heredoc.Doc(`
		Opens a fuzzy finder over every indexed note with a rendered
		Markdown preview. The selected note's path is printed, so the
		command composes with shell pipelines.
	`),
	Example: heredoc.Doc(`
		nota find
		nota find roadmap
		nota edit "$(nota find)"
	`),
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}

		finder := fzf.NewFuzzyFinder(snapshot, "Find note")
		path, err := finder.Run(strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
