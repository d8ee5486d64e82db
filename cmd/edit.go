package cmd

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/buffer"
	"github.com/sorenpeters/nota/internal/fzf"
	"github.com/sorenpeters/nota/internal/note"
	"github.com/sorenpeters/nota/internal/search"
	"github.com/sorenpeters/nota/tui/edit"
)

var editCreateMissing bool

var editCmd = &cobra.Command{
	Use:     "edit [note]",
	Aliases: []string{"e"},
	Short:   "Open a note in the modal editor.",
	Long: heredoc.Doc(`
		Opens a note by title, filename stem, or relative path in the
		built-in modal editor. Without an argument an interactive picker is
		shown. Unknown names fail unless --create is given.
	`),
	Example: heredoc.Doc(`
		nota edit "Other Note"
		nota edit projects/roadmap.md
		nota edit brand-new-idea --create
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}

		var path string
		if len(args) == 0 {
			finder := fzf.NewFuzzyFinder(snapshot, "Edit note")
			path, err = finder.Run("")
			if err != nil {
				return err
			}
		} else {
			path, err = snapshot.Resolve(args[0])
			if errors.Is(err, search.ErrNotFound) && editCreateMissing {
				path, _, err = note.CreateIfMissing(s.Vault, s.Templater, args[0])
			}
			if err != nil {
				return err
			}
		}

		doc, err := buffer.Load(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}

		model := edit.NewModel(doc, s.Keymap, s.Templater, edit.Options{
			VaultDir:         s.Vault,
			TabWidth:         s.Config.Editor.TabWidth,
			AutoSaveInterval: s.Config.AutoSaveInterval(),
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	editCmd.Flags().
		BoolVarP(&editCreateMissing, "create", "c", false, "create the note if it does not exist")
	rootCmd.AddCommand(editCmd)
}
