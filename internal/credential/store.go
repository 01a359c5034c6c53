// Package credential caches the desktop PIN in a persisted cell and prompts
// for it when the cell is empty.
package credential

import (
	"sync"

	"go.uber.org/zap"

	"fsfplink/internal/utils"
)

// PromptMessage is shown when no PIN is cached.
const PromptMessage = "Enter your FS Flight Plan Link PIN code."

// Credential is the PIN sent as the Basic auth password.
type Credential string

// Cell is a persisted key/value slot (a cookie in the browser, a file for the CLI).
type Cell interface {
	Get(name string) (string, bool)
	Set(name, value string) error
	Remove(name string) error
}

// Prompter asks the user for input. page.Page satisfies it.
type Prompter interface {
	Prompt(message string) (string, bool)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(message string) (string, bool)

func (f PrompterFunc) Prompt(message string) (string, bool) { return f(message) }

// Store is the page-wide credential. Construct one at init and share it.
type Store struct {
	mu       sync.Mutex
	cell     Cell
	name     string
	prompter Prompter
	logger   *utils.Logger
}

func NewStore(cell Cell, name string, prompter Prompter, logger *utils.Logger) *Store {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Store{cell: cell, name: name, prompter: prompter, logger: logger}
}

// Get returns the cached credential. With useCache set and nothing cached it
// prompts, caches a non-empty answer and returns it; without useCache it never
// prompts.
func (s *Store) Get(useCache bool) (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cell.Get(s.name); ok {
		return Credential(v), true
	}
	if !useCache || s.prompter == nil {
		return "", false
	}

	answer, ok := s.prompter.Prompt(PromptMessage)
	if !ok || answer == "" {
		s.logger.Info("pin prompt dismissed")
		return "", false
	}
	if err := s.cell.Set(s.name, answer); err != nil {
		// Still usable for this attempt, just not remembered.
		s.logger.Error("cache pin", zap.Error(err))
	}
	return Credential(answer), true
}

func (s *Store) Set(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cell.Set(s.name, string(c)); err != nil {
		s.logger.Error("cache pin", zap.Error(err))
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cell.Remove(s.name); err != nil {
		s.logger.Error("clear pin", zap.Error(err))
	}
}
