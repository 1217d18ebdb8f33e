package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"quisqueya-quiz/internal/domain"
)

var requiredFields = []string{"id", "theme", "niveau", "texte", "options", "bonne_option"}

// LoadQuestions reads every *.json file in dir (sorted by name). When dir does not exist it falls
// back to the single file fallbackFile, if that exists. Bad files and bad records are skipped and
// reported as issues; only context cancellation makes the load fail.
func LoadQuestions(ctx context.Context, dir, fallbackFile string) ([]domain.Question, []domain.LoadIssue, error) {
	paths, err := sourcePaths(dir, fallbackFile)
	if err != nil {
		return nil, nil, err
	}

	type fileResult struct {
		questions []domain.Question
		issues    []domain.LoadIssue
	}
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			qs, issues := loadFile(path)
			results[i] = fileResult{questions: qs, issues: issues}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}

	questions := make([]domain.Question, 0)
	var issues []domain.LoadIssue
	for _, r := range results {
		questions = append(questions, r.questions...)
		issues = append(issues, r.issues...)
	}
	for _, issue := range issues {
		slog.Warn("skipped question data", "path", issue.Path, "id", issue.ID, "reason", issue.Err)
	}
	slog.Debug("questions loaded", "files", len(paths), "count", len(questions), "skipped", len(issues))
	return questions, issues, nil
}

func sourcePaths(dir, fallbackFile string) ([]string, error) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		sort.Strings(paths)
		return paths, nil
	}
	if fallbackFile == "" {
		return nil, nil
	}
	if info, err := os.Stat(fallbackFile); err == nil && !info.IsDir() {
		return []string{fallbackFile}, nil
	}
	return nil, nil
}

func loadFile(path string) ([]domain.Question, []domain.LoadIssue) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []domain.LoadIssue{{Path: path, Err: fmt.Errorf("read: %w", err)}}
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, []domain.LoadIssue{{Path: path, Err: fmt.Errorf("parse: %w", err)}}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, []domain.LoadIssue{{Path: path, Err: errors.New("parse: unexpected data after the top-level value")}}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, []domain.LoadIssue{{Path: path, Err: domain.ErrNotAnArray}}
	}

	var (
		questions []domain.Question
		issues    []domain.LoadIssue
	)
	for _, item := range items {
		q, err := parseQuestion(item)
		if err != nil {
			issues = append(issues, domain.LoadIssue{Path: path, ID: recordID(item), Err: err})
			continue
		}
		questions = append(questions, q)
	}
	return questions, issues
}

func parseQuestion(item any) (domain.Question, error) {
	record, ok := item.(map[string]any)
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: record is not an object", domain.ErrInvalidField)
	}
	var missing []string
	for _, field := range requiredFields {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return domain.Question{}, fmt.Errorf("%w: %s", domain.ErrMissingField, strings.Join(missing, ", "))
	}

	var (
		q   domain.Question
		err error
	)
	if q.ID, err = coerceInt("id", record["id"]); err != nil {
		return domain.Question{}, err
	}
	if q.Theme, err = coerceString("theme", record["theme"]); err != nil {
		return domain.Question{}, err
	}
	if q.Level, err = coerceString("niveau", record["niveau"]); err != nil {
		return domain.Question{}, err
	}
	if q.Text, err = coerceString("texte", record["texte"]); err != nil {
		return domain.Question{}, err
	}
	if q.Options, err = coerceStrings("options", record["options"]); err != nil {
		return domain.Question{}, err
	}
	if q.CorrectIndex, err = coerceInt("bonne_option", record["bonne_option"]); err != nil {
		return domain.Question{}, err
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return domain.Question{}, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrCorrectIndexOutOfRange, q.CorrectIndex, len(q.Options))
	}
	return q, nil
}

func recordID(item any) string {
	record, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	id, ok := record["id"]
	if !ok || id == nil {
		return ""
	}
	return fmt.Sprint(id)
}

// coerceInt accepts integers, floats (truncated, when they fit an int), numeric strings and booleans.
func coerceInt(field string, v any) (int, error) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), nil
		}
		f, err := val.Float64()
		if err != nil || math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
			return 0, fmt.Errorf("%w: %s=%v", domain.ErrInvalidField, field, v)
		}
		return int(f), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidField, field, val)
		}
		return i, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s=%v", domain.ErrInvalidField, field, v)
	}
}

// coerceString accepts strings, numbers and booleans.
func coerceString(field string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("%w: %s must be a scalar", domain.ErrInvalidField, field)
	}
}

func coerceStrings(field string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an array", domain.ErrInvalidField, field)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, err := coerceString(fmt.Sprintf("%s[%d]", field, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

