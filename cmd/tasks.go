package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sorenpeters/nota/internal/pathutil"
	tasksvc "github.com/sorenpeters/nota/internal/services/tasks"
	taskstui "github.com/sorenpeters/nota/tui/tasks"
)

var tasksInteractive bool

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"t"},
	Short:   "List every unchecked task in the vault.",
	Long: heredoc.Doc(`
		Collects unchecked checkbox items from all notes, ordered by path
		and line number. Due dates and owners from @key(value) annotations
		are shown when present. With --interactive the tasks open in a
		browsable list where checkboxes can be toggled in place.
	`),
	Example: heredoc.Doc(`
		nota tasks
		nota tasks --interactive
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getState()
		if err != nil {
			return err
		}

		if tasksInteractive {
			model, err := taskstui.NewModel(
				tasksvc.NewService(s.Handler, s.Index),
				s.Vault,
			)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		}

		snapshot, err := s.Index.AcquireSnapshot()
		if err != nil {
			return err
		}

		tasks := snapshot.Tasks()
		if len(tasks) == 0 {
			fmt.Println("no open tasks")
			return nil
		}

		for _, task := range tasks {
			rel := task.Path
			if r, err := pathutil.VaultRelative(s.Vault, task.Path); err == nil {
				rel = r
			}

			line := fmt.Sprintf("%s:%d\t%s", rel, task.Line, task.Text)
			if task.Metadata.DueDate != nil {
				line += fmt.Sprintf("  (due %s)", task.Metadata.DueDate.Format("2006-01-02"))
			}
			if task.Metadata.Owner != "" {
				line += fmt.Sprintf("  (@%s)", task.Metadata.Owner)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	tasksCmd.Flags().
		BoolVarP(&tasksInteractive, "interactive", "i", false, "browse tasks in an interactive list")
	rootCmd.AddCommand(tasksCmd)
}
