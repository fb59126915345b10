// Package progress persists the send-loop checkpoint so an interrupted batch
// can resume where it stopped. The file format is a small JSON object kept
// compatible with earlier versions of the tool.
package progress

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Checkpoint is the persisted state. Index counts the contacts already sent,
// which is also the index of the next contact to process; Date records when
// it was written.
type Checkpoint struct {
	Index int    `json:"indice"`
	Date  string `json:"fecha"`
}

// Store reads and writes the checkpoint file at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored checkpoint. A missing or unreadable file yields the
// zero checkpoint; a batch always has somewhere valid to start from.
func (s *Store) Load() Checkpoint {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("progress: read checkpoint", zap.Error(err))
		}
		return Checkpoint{}
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		zap.L().Warn("progress: corrupt checkpoint, starting over", zap.Error(err))
		return Checkpoint{}
	}
	if cp.Index < 0 {
		cp.Index = 0
	}
	return cp
}

// Save writes the checkpoint for index.
func (s *Store) Save(index int) error {
	data, err := json.Marshal(Checkpoint{
		Index: index,
		Date:  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return eris.Wrap(err, "progress: marshal checkpoint")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return eris.Wrap(err, "progress: write checkpoint")
	}
	return nil
}

// Clear removes the checkpoint file. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "progress: remove checkpoint")
	}
	return nil
}
