package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quisqueya-quiz/internal/config"
	"quisqueya-quiz/internal/domain"
	"quisqueya-quiz/internal/infra/filesystem"
	"quisqueya-quiz/internal/transport/terminal"
)

const (
	defaultCustomTheme = "Culture générale"
	customOptionCount  = 4
)

// NewAddQuestionCmd appends one question, typed interactively, to the custom question file.
func NewAddQuestionCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "add-question",
		Short: "Add a question to the custom question file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddQuestion(cmd, s.cfg, time.Now)
		},
	}
}

func runAddQuestion(cmd *cobra.Command, cfg config.Config, now func() time.Time) error {
	ctx := cmd.Context()
	presenter, err := newPresenter(cmd, cfg)
	if err != nil {
		return err
	}
	reader := terminal.NewLineReader(cmd.InOrStdin())
	defer reader.Close()

	path := filepath.Join(cfg.Questions.Dir, cfg.Questions.CustomFile)
	presenter.Say("AddIntro", map[string]any{"Path": path})

	ask := func(msgID string, data map[string]any) (string, error) {
		presenter.Promptd(msgID, data)
		line, err := reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return strings.TrimSpace(line), err
	}

	var d draftQuestion
	if d.theme, err = ask("AddThemePrompt", nil); err != nil {
		return err
	}
	if d.level, err = ask("AddLevelPrompt", nil); err != nil {
		return err
	}
	if d.text, err = ask("AddTextPrompt", nil); err != nil {
		return err
	}
	for i := 1; i <= customOptionCount; i++ {
		opt, err := ask("AddOptionPrompt", map[string]any{"Index": i})
		if err != nil {
			return err
		}
		d.options = append(d.options, opt)
	}
	if d.correct, err = ask("AddCorrectPrompt", nil); err != nil {
		return err
	}

	if err := filesystem.AppendQuestion(path, d.build(int(now().Unix()))); err != nil {
		return fmt.Errorf("add question: %w", err)
	}
	presenter.Say("AddDone", map[string]any{"Path": path})
	return nil
}

// draftQuestion holds the raw answers to the add-question prompts.
type draftQuestion struct {
	theme, level, text string
	options            []string
	correct            string
}

// build fills the gaps: default theme and level, "Option N" for blank options, and option 1 when
// the correct answer is not a number between 1 and 4.
func (d draftQuestion) build(id int) domain.Question {
	q := domain.Question{
		ID:      id,
		Theme:   d.theme,
		Level:   d.level,
		Text:    d.text,
		Options: make([]string, customOptionCount),
	}
	if q.Theme == "" {
		q.Theme = defaultCustomTheme
	}
	if q.Level == "" {
		q.Level = domain.LevelEasy
	}
	for i := range q.Options {
		if i < len(d.options) && d.options[i] != "" {
			q.Options[i] = d.options[i]
		} else {
			q.Options[i] = fmt.Sprintf("Option %d", i+1)
		}
	}
	if n, err := strconv.Atoi(d.correct); err == nil && n >= 1 && n <= customOptionCount {
		q.CorrectIndex = n - 1
	}
	return q
}
