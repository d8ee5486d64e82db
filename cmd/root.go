package cmd

import (
	"os"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sorenpeters/nota/internal/constants"
	"github.com/sorenpeters/nota/internal/state"
)

var (
	cfgFile       string
	vaultOverride string

	stateOnce sync.Once
	appState  *state.State
	stateErr  error
)

var rootCmd = &cobra.Command{
	Use:     "nota",
	Version: constants.Version,
	Short:   "A keyboard-driven Markdown note manager.",
	Long: heredoc.Doc(`
		nota keeps a vault of plain Markdown notes searchable and editable
		from the terminal: a modal editor, fuzzy search over filenames and
		content, wiki-link navigation, and a workspace-wide task board.
	`),
	Example: heredoc.Doc(`
		nota new meeting-notes --template meeting
		nota edit "Other Note"
		nota search "#work planning"
		nota tasks
	`),
}

func Execute() {
	err := rootCmd.Execute()
	closeState()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nota/cfg.yaml)")
	rootCmd.PersistentFlags().
		StringVar(&vaultOverride, "vault", "", "vault directory override")
	viper.BindPFlag("vaultdir", rootCmd.PersistentFlags().Lookup("vault"))
}

// getState builds the shared application state on first use so commands
// like help and version never pay for a vault scan.
func getState() (*state.State, error) {
	stateOnce.Do(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		appState, stateErr = state.NewState(vaultOverride)
	})
	return appState, stateErr
}

func closeState() {
	if appState != nil {
		_ = appState.Close()
	}
}
