package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"quisqueya-quiz/internal/domain"
)

// ScoreStore persists round results as one JSON array file. Every save rewrites the whole array
// into a temp file in the same directory and renames it over the old one, so readers only ever see
// a complete file.
type ScoreStore struct {
	path string

	// beforeReplace runs after the new content is written and before the rename; tests use it to
	// simulate a crash.
	beforeReplace func() error
}

// NewScoreStore opens the store at path, creating it as an empty array if it does not exist.
func NewScoreStore(path string) (*ScoreStore, error) {
	s := &ScoreStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create score dir: %w", err)
			}
		}
		if err := s.write([]json.RawMessage{}); err != nil {
			return nil, fmt.Errorf("init score file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat score file: %w", err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *ScoreStore) Path() string {
	return s.path
}

// LoadAll returns every stored result, oldest first. An unreadable or corrupted file reads as empty,
// and an entry that does not decode as a result is skipped.
func (s *ScoreStore) LoadAll(_ context.Context) ([]domain.RoundResult, error) {
	records, err := readRecords(s.path)
	if err != nil {
		slog.Warn("score file unreadable, treating as empty", "path", s.path, "error", err)
		return []domain.RoundResult{}, nil
	}
	results := make([]domain.RoundResult, 0, len(records))
	for i, raw := range records {
		if bytes.Equal(raw, []byte("null")) {
			continue
		}
		var r domain.RoundResult
		if err := json.Unmarshal(raw, &r); err != nil {
			slog.Warn("skipping unreadable score entry", "path", s.path, "index", i, "error", err)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// SaveScore appends result and atomically replaces the file. Existing entries are written back
// byte for byte, including ones LoadAll skips. A file that is not a JSON array is renamed aside
// before a new history is started.
func (s *ScoreStore) SaveScore(_ context.Context, result domain.RoundResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	records, err := recordsForAppend(s.path)
	if err != nil {
		return fmt.Errorf("read scores: %w", err)
	}
	encoded, err := marshalRecord(result)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	if err := s.write(append(records, encoded)); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return nil
}

// TopN returns the leaderboard, optionally restricted to one theme.
func (s *ScoreStore) TopN(ctx context.Context, n int, theme string) ([]domain.RoundResult, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.TopN(all, n, theme), nil
}

func (s *ScoreStore) write(records []json.RawMessage) error {
	data, err := marshalIndent(records)
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data, s.beforeReplace)
}

var errNotJSONArray = errors.New("not a JSON array")

// readRecords returns the raw elements of the JSON array at path. A missing file is an empty array.
func readRecords(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotJSONArray, err)
	}
	return records, nil
}

// recordsForAppend reads the array at path for rewriting. A file that is not a JSON array is
// renamed aside and replaced by an empty history.
func recordsForAppend(path string) ([]json.RawMessage, error) {
	records, err := readRecords(path)
	if !errors.Is(err, errNotJSONArray) {
		return records, err
	}
	backup, rerr := setAside(path)
	if rerr != nil {
		return nil, fmt.Errorf("set aside corrupted file: %w", rerr)
	}
	slog.Warn("corrupted file moved aside", "path", path, "backup", backup, "error", err)
	return nil, nil
}

// setAside renames a corrupted file so the next write cannot destroy it.
func setAside(path string) (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405.000000000"))
	if err := os.Rename(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func marshalRecord(v any) (json.RawMessage, error) {
	data, err := marshalIndent(v)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(data), nil
}

// marshalIndent keeps non-ASCII text and HTML characters readable in the file.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte, beforeReplace func() error) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return err
	}
	if beforeReplace != nil {
		if err := beforeReplace(); err != nil {
			return err
		}
	}
	return pending.CloseAtomicallyReplace()
}
