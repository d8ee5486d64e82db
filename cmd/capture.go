package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/note"
	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/templater"
)

var captureTitle string

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Create a note from the clipboard contents.",
	Long: heredoc.Doc(`
		Reads the system clipboard and stores it as a new note. Without
		--title the note is named with a capture timestamp.
	`),
	Example: heredoc.Doc(`
		nota capture
		nota capture --title "meeting follow-up"
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		content, err := clipboard.ReadAll()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("clipboard is empty")
		}

		title := captureTitle
		if title == "" {
			title = "capture-" + time.Now().Format("20060102-150405")
		}

		n := note.New(s.Vault, "", title, []string{"capture"})
		path, err := n.Create(templater.DefaultTemplate, s.Templater, content)
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
	captureCmd.Flags().
		StringVarP(&captureTitle, "title", "t", "", "title for the captured note")
	rootCmd.AddCommand(captureCmd)
}
