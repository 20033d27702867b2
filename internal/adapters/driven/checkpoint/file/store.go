// Package file implements driven.CheckpointStore on the local
// filesystem. Each run's checkpoint is one JSON file, replaced
// atomically on every save so an interrupted write can never corrupt
// previously saved progress.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
	"github.com/reelnotes/reelnotes/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.CheckpointStore = (*Store)(nil)

// Store persists checkpoints as JSON files under a state directory.
type Store struct {
	dir string
}

// NewStore creates a checkpoint store rooted at stateDir. If stateDir
// is empty, defaults to ~/.reelnotes/checkpoints.
func NewStore(stateDir string) (*Store, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		stateDir = filepath.Join(home, ".reelnotes", "checkpoints")
	}

	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, err
	}
	return &Store{dir: stateDir}, nil
}

// Load restores the checkpoint for a run. Missing and corrupt files
// both yield a fresh empty checkpoint: corruption discards stale
// progress but must never abort the run.
func (s *Store) Load(_ context.Context, runID string) (*domain.Checkpoint, error) {
	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Checkpoint %s unreadable, starting fresh: %v", runID, err)
		}
		return domain.NewCheckpoint(), nil
	}

	cp := domain.NewCheckpoint()
	if err := json.Unmarshal(data, cp); err != nil {
		logger.Warn("Checkpoint %s corrupt, starting fresh: %v", runID, err)
		return domain.NewCheckpoint(), nil
	}
	if cp.ProcessedIDs == nil {
		cp.ProcessedIDs = make(map[string]bool)
	}
	return cp, nil
}

// Save writes the checkpoint synchronously. The file is written aside
// and renamed into place; rename is atomic on POSIX filesystems.
func (s *Store) Save(_ context.Context, runID string, cp *domain.Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	tmp := s.path(runID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.path(runID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}

// Clear removes a run's checkpoint. Clearing a run that has no
// checkpoint is not an error.
func (s *Store) Clear(_ context.Context, runID string) error {
	if err := os.Remove(s.path(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// Path returns the checkpoint file path for a run.
func (s *Store) Path(runID string) string {
	return s.path(runID)
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}
