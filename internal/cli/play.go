package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"quisqueya-quiz/internal/app"
	"quisqueya-quiz/internal/config"
	"quisqueya-quiz/internal/transport/terminal"
)

const (
	quickCount     = 10
	quickTimeLimit = 15 * time.Second
)

type roundOptions struct {
	count     int
	themes    []string
	levels    []string
	balanced  bool
	timeLimit time.Duration
	player    string
}

// NewPlayCmd plays one round in the terminal.
func NewPlayCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a round",
		Long: "Play a round of up to 10 questions. Without filters every theme and level is eligible;\n" +
			"--quick plays 10 questions from all themes with a 15 second timer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, s.cfg, roundOptionsFor(cmd, s.cfg))
		},
	}
	f := cmd.Flags()
	f.IntP("count", "n", 0, "number of questions (at most 10; default from config)")
	f.StringSliceP("theme", "t", nil, "restrict to theme (repeatable)")
	f.StringSliceP("level", "l", nil, "restrict to level (repeatable)")
	f.Bool("balanced", false, "aim for 4 easy / 4 medium / 2 hard questions")
	f.String("time-limit", "", "time allowed per question, e.g. 15s (0 disables)")
	f.StringP("player", "p", "", "player name (prompted when empty)")
	f.Bool("quick", false, "quick round: 10 questions, all themes, 15s per question")
	return cmd
}

func roundOptionsFor(cmd *cobra.Command, cfg config.Config) roundOptions {
	v := viperForCmd(cmd)
	opts := roundOptions{
		count:     cfg.Round.Count,
		themes:    v.GetStringSlice("theme"),
		levels:    v.GetStringSlice("level"),
		balanced:  cfg.Round.Balanced,
		timeLimit: config.Duration(cfg.Round.TimeLimit, 0),
		player:    v.GetString("player"),
	}
	if v.IsSet("count") {
		opts.count = v.GetInt("count")
	}
	if v.IsSet("balanced") {
		opts.balanced = v.GetBool("balanced")
	}
	if v.IsSet("time-limit") {
		opts.timeLimit = config.Duration(v.GetString("time-limit"), opts.timeLimit)
	}
	if v.GetBool("quick") {
		opts.count = quickCount
		opts.themes = nil
		opts.levels = nil
		opts.balanced = false
		opts.timeLimit = quickTimeLimit
	}
	return opts
}

func runPlay(cmd *cobra.Command, cfg config.Config, opts roundOptions) error {
	ctx := cmd.Context()

	bank, err := loadQuestionBank(ctx, cfg)
	if err != nil {
		return err
	}
	presenter, err := newPresenter(cmd, cfg)
	if err != nil {
		return err
	}

	questions := bank.SampleQuestions(opts.count, opts.themes, opts.levels, opts.balanced)
	if len(questions) == 0 {
		presenter.NoQuestions()
		return nil
	}

	store, closeStore, err := openScoreStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("closing score store", "error", err)
		}
	}()

	reader := terminal.NewLineReader(cmd.InOrStdin())
	defer reader.Close()

	player, err := askPlayerName(ctx, reader, presenter, opts.player)
	if err != nil {
		return err
	}

	engine := app.NewEngine(store, reader, opts.timeLimit, app.WithPresenter(presenter))
	slog.Debug("round starting", "questions", len(questions), "time_limit", opts.timeLimit, "balanced", opts.balanced)
	if _, err := engine.Run(ctx, questions, player); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("round interrupted")
			return nil
		}
		return err
	}
	return nil
}

func askPlayerName(ctx context.Context, reader *terminal.LineReader, presenter *terminal.Presenter, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	presenter.Prompt("PlayerPrompt")
	line, err := reader.ReadLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}
