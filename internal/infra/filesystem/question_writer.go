package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"quisqueya-quiz/internal/domain"
)

// AppendQuestion adds q to the JSON array at path, creating the file (and its directory) if needed.
// Existing records are kept verbatim; a file that is not a JSON array is renamed aside first.
func AppendQuestion(path string, q domain.Question) error {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("append question: %w", domain.ErrCorrectIndexOutOfRange)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create question dir: %w", err)
	}

	records, err := recordsForAppend(path)
	if err != nil {
		return fmt.Errorf("read questions: %w", err)
	}
	encoded, err := marshalRecord(q)
	if err != nil {
		return fmt.Errorf("encode question: %w", err)
	}

	data, err := marshalIndent(append(records, encoded))
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if err := writeAtomic(path, data, nil); err != nil {
		return fmt.Errorf("write questions: %w", err)
	}
	return nil
}
