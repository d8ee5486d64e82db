package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/note"
	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/templater"
)

var (
	newTemplate string
	newSubDir   string
)

var newCmd = &cobra.Command{
	Use:     "new <title> [tags]",
	Aliases: []string{"n"},
	Short:   "Create a new note from a template.",
	Long: heredoc.Doc(`
		Creates a note in the vault from one of the built-in or user
		templates. An optional second argument adds space-separated tags.
	`),
	Example: heredoc.Doc(`
		nota new robotics "robotics study-notes"
		nota new standup --template daily
		nota new kickoff --template meeting --dir projects
	`),
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		var tags []string
		if len(args) > 1 {
			tags = strings.Fields(args[1])
		}

		if newTemplate == "" {
			newTemplate = templater.DefaultTemplate
		}
		if !s.Templater.Has(newTemplate) {
			return fmt.Errorf(
				"unknown template %q, available: %s",
				newTemplate,
				strings.Join(s.Templater.Names(), ", "),
			)
		}

		n := note.New(s.Vault, newSubDir, args[0], tags)
		path, err := n.Create(newTemplate, s.Templater, "")
		if err != nil {
			return err
		}

		if rel, err := pathutil.VaultRelative(s.Vault, path); err == nil {
			s.Index.QueueUpdate(rel)
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	newCmd.Flags().
		StringVarP(&newTemplate, "template", "t", templater.DefaultTemplate, "template to render")
	newCmd.Flags().
		StringVarP(&newSubDir, "dir", "d", "", "subdirectory inside the vault")
	rootCmd.AddCommand(newCmd)
}
