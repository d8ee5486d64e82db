package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var previewCmd = &cobra.Command{
	Use:     "preview <note>",
	Aliases: []string{"p", "cat"},
	Short:   "Render a note as styled Markdown in the terminal.",
	Example: heredoc.Doc(`
		nota preview "Other Note"
		nota preview projects/roadmap.md
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

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		width := 100
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
			width = w
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
			glamour.WithColorProfile(termenv.ColorProfile()),
		)
		if err != nil {
			return err
		}

		rendered, err := r.Render(string(content))
		if err != nil {
			return err
		}

		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
