// Package state wires the application together: configuration, vault file
// handling, the shared index service, and the watcher feeding it.
package state

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/sorenpeters/nota/internal/config"
	"github.com/sorenpeters/nota/internal/constants"
	"github.com/sorenpeters/nota/internal/handler"
	"github.com/sorenpeters/nota/internal/keymap"
	"github.com/sorenpeters/nota/internal/search"
	indexsvc "github.com/sorenpeters/nota/internal/services/index"
	"github.com/sorenpeters/nota/internal/templater"
	"github.com/sorenpeters/nota/internal/watcher"
)

// IndexService exposes the shared workspace index snapshots produced by the
// index service.
type IndexService interface {
	AcquireSnapshot() (*search.Index, error)
	QueueUpdate(string)
	Stats() indexsvc.Stats
	Close() error
}

type State struct {
	Config    *config.Config
	Templater *templater.Templater
	Handler   *handler.FileHandler
	Keymap    *keymap.Map
	Home      string
	Vault     string
	Watcher   *watcher.VaultWatcher
	Index     IndexService
}

// NewState builds the full application state. The vault watcher feeds the
// index service in the background; index consumers only ever pull
// snapshots.
func NewState(vaultOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}
	if vaultOverride != "" {
		cfg.VaultDir = vaultOverride
	}

	if err := os.MkdirAll(cfg.VaultDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	t, err := templater.NewTemplater()
	if err != nil {
		return nil, fmt.Errorf("failed to create templater: %w", err)
	}

	keys, err := keymap.New(cfg.Editor.Keybindings)
	if err != nil {
		return nil, err
	}

	h := handler.NewFileHandler(cfg.VaultDir)

	w, err := watcher.New(cfg.VaultDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}

	indexService := indexsvc.NewService(cfg.VaultDir, cfg.SearchOptions())
	indexService.Warm()

	go func() {
		for {
			select {
			case event, ok := <-w.Events():
				if !ok {
					return
				}
				indexService.QueueUpdate(event.Path)
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Printf("vault watcher: %v", err)
			}
		}
	}()

	return &State{
		Config:    cfg,
		Templater: t,
		Handler:   h,
		Keymap:    keys,
		Home:      home,
		Vault:     cfg.VaultDir,
		Watcher:   w,
		Index:     indexService,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}
	return config.Load(home)
}

// Close releases the vault watcher and the shared index service.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, indexsvc.ErrClosed) {
			errs = append(errs, err)
		}
		s.Index = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
