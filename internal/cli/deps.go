package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quisqueya-quiz/internal/app"
	"quisqueya-quiz/internal/config"
	"quisqueya-quiz/internal/domain"
	"quisqueya-quiz/internal/infra/filesystem"
	"quisqueya-quiz/internal/infra/memory"
	"quisqueya-quiz/internal/infra/sqlite"
	"quisqueya-quiz/internal/transport/terminal"
)

// openScoreStore picks the backend named in the config. The returned close func is never nil.
func openScoreStore(ctx context.Context, cfg config.Config) (app.ScoreStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Scores.Backend {
	case config.BackendJSON, "":
		store, err := filesystem.NewScoreStore(cfg.Scores.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.Scores.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.BackendMemory:
		return memory.NewScoreStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Scores.Backend)
	}
}

// loadQuestionBank reads the configured question sources into a fresh bank.
func loadQuestionBank(ctx context.Context, cfg config.Config) (*memory.QuestionBank, error) {
	questions, _, err := filesystem.LoadQuestions(ctx, cfg.Questions.Dir, cfg.Questions.File)
	if err != nil {
		return nil, err
	}
	return memory.NewQuestionBank(questions), nil
}

func newPresenter(cmd *cobra.Command, cfg config.Config) (*terminal.Presenter, error) {
	cat, err := terminal.NewCatalog(cfg.UI.Lang)
	if err != nil {
		return nil, err
	}
	return terminal.NewPresenter(cmd.OutOrStdout(), cat), nil
}
