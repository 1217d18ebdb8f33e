package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"quisqueya-quiz/internal/domain"
)

// ScoreStore abstracts where round results are persisted (JSON file, SQLite, memory).
type ScoreStore interface {
	LoadAll(ctx context.Context) ([]domain.RoundResult, error)
	SaveScore(ctx context.Context, result domain.RoundResult) error
	TopN(ctx context.Context, n int, theme string) ([]domain.RoundResult, error)
}

// AnswerReader supplies one raw answer per call. ReadLine must return promptly with ctx.Err()
// once ctx is done, and must never hand a line meant for an abandoned call to a later one.
type AnswerReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// Presenter renders round progress. All methods are called from the goroutine running the round.
type Presenter interface {
	RoundStarted(player string, total int)
	AskQuestion(q domain.Question, index, total int, timeLimit time.Duration)
	AnswerScored(q domain.Question, answer domain.AnswerResult)
	RoundFinished(summary Summary)
}

// Summary is what a finished round hands back to its caller.
type Summary struct {
	Result  domain.RoundResult
	Answers []domain.AnswerResult
	// SaveErr is set when the result could not be persisted; Result is valid regardless.
	SaveErr error
}

// Engine plays rounds over a fixed question list.
type Engine struct {
	store     ScoreStore
	input     AnswerReader
	presenter Presenter
	timeLimit time.Duration
	now       func() time.Time
	newID     func() string
}

type Option func(*Engine)

// WithClock is used by tests for deterministic timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithPresenter attaches a renderer; without one the round runs silently.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// NewEngine builds an engine. A timeLimit <= 0 waits indefinitely for each answer.
func NewEngine(store ScoreStore, input AnswerReader, timeLimit time.Duration, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		input:     input,
		presenter: nopPresenter{},
		timeLimit: timeLimit,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run asks every question in order, scores the answers and saves the result. A failed save is
// reported through Summary.SaveErr. Cancelling ctx aborts the round; nothing is saved then.
func (e *Engine) Run(ctx context.Context, questions []domain.Question, playerName string) (Summary, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		playerName = domain.DefaultPlayerName
	}

	start := e.now()
	total := len(questions)
	e.presenter.RoundStarted(playerName, total)

	answers := make([]domain.AnswerResult, 0, total)
	correct := 0
	for i, q := range questions {
		e.presenter.AskQuestion(q, i+1, total, e.timeLimit)
		answer, err := e.ask(ctx, q)
		if err != nil {
			return Summary{}, err
		}
		if answer.Outcome == domain.OutcomeCorrect {
			correct++
		}
		answers = append(answers, answer)
		e.presenter.AnswerScored(q, answer)
	}

	end := e.now()
	percentage := domain.Percentage(correct, total)
	result := domain.RoundResult{
		ID:              e.newID(),
		PlayerName:      playerName,
		Timestamp:       end.UTC().Format(domain.TimestampLayout),
		Theme:           common(questions, func(q domain.Question) string { return q.Theme }),
		Level:           common(questions, func(q domain.Question) string { return q.Level }),
		QuestionCount:   total,
		CorrectCount:    correct,
		IncorrectCount:  total - correct,
		TotalScore:      correct,
		Percentage:      &percentage,
		DurationSeconds: elapsedSeconds(start, end),
	}

	summary := Summary{Result: result, Answers: answers}
	if err := e.store.SaveScore(ctx, result); err != nil {
		slog.Warn("round result not saved", "round", result.ID, "error", err)
		summary.SaveErr = fmt.Errorf("%w: %w", domain.ErrScoreNotSaved, err)
	}
	e.presenter.RoundFinished(summary)
	return summary, nil
}

// ask collects and scores one answer. Only parent cancellation and reader failures are errors;
// a timeout, end of input or a malformed answer are scored as wrong.
func (e *Engine) ask(ctx context.Context, q domain.Question) (domain.AnswerResult, error) {
	readCtx := ctx
	if e.timeLimit > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, e.timeLimit)
		defer cancel()
	}

	raw, err := e.input.ReadLine(readCtx)
	switch {
	case err == nil:
		return scoreAnswer(q, raw), nil
	case ctx.Err() != nil:
		return domain.AnswerResult{}, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return domain.AnswerResult{QuestionID: q.ID, Outcome: domain.OutcomeTimedOut}, nil
	case errors.Is(err, io.EOF):
		return domain.AnswerResult{QuestionID: q.ID, Outcome: domain.OutcomeInvalid}, nil
	default:
		return domain.AnswerResult{}, fmt.Errorf("read answer: %w", err)
	}
}

// scoreAnswer reads raw as a 1-based option number. Anything else is invalid; there is no re-prompt.
func scoreAnswer(q domain.Question, raw string) domain.AnswerResult {
	answer := domain.AnswerResult{QuestionID: q.ID, Raw: raw}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(q.Options) {
		answer.Outcome = domain.OutcomeInvalid
		return answer
	}
	if q.Correct(n - 1) {
		answer.Outcome = domain.OutcomeCorrect
	} else {
		answer.Outcome = domain.OutcomeIncorrect
	}
	return answer
}

// common returns the value shared by every question, or domain.Mixed.
func common(questions []domain.Question, field func(domain.Question) string) string {
	if len(questions) == 0 {
		return domain.Mixed
	}
	first := field(questions[0])
	for _, q := range questions[1:] {
		if field(q) != first {
			return domain.Mixed
		}
	}
	return first
}

func elapsedSeconds(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

type nopPresenter struct{}

func (nopPresenter) RoundStarted(string, int) {}
func (nopPresenter) AskQuestion(domain.Question, int, int, time.Duration) {}
func (nopPresenter) AnswerScored(domain.Question, domain.AnswerResult) {}
func (nopPresenter) RoundFinished(Summary) {}
