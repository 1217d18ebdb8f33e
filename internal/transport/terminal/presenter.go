package terminal

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"quisqueya-quiz/internal/app"
	"quisqueya-quiz/internal/domain"
)

var medals = []string{"🥇", "🥈", "🥉"}

// Presenter writes the round, leaderboard and theme views as plain text.
type Presenter struct {
	out io.Writer
	cat *Catalog
}

var _ app.Presenter = (*Presenter)(nil)

func NewPresenter(out io.Writer, cat *Catalog) *Presenter {
	return &Presenter{out: out, cat: cat}
}

func (p *Presenter) RoundStarted(player string, total int) {
	p.println()
	p.println(p.cat.Tp("RoundStarted", total, map[string]any{"Player": player}))
}

func (p *Presenter) AskQuestion(q domain.Question, index, total int, timeLimit time.Duration) {
	p.println()
	p.println(p.cat.Td("QuestionHeader", map[string]any{
		"Index": index, "Total": total, "Theme": q.Theme, "Level": q.Level,
	}))
	p.println(q.Text)
	for i, opt := range q.Options {
		p.println(fmt.Sprintf("  %d) %s", i+1, opt))
	}
	if timeLimit > 0 {
		p.println(p.cat.Td("TimeLimit", map[string]any{"Seconds": formatSeconds(timeLimit)}))
	}
	p.Prompt("AnswerPrompt")
}

func (p *Presenter) AnswerScored(q domain.Question, answer domain.AnswerResult) {
	switch answer.Outcome {
	case domain.OutcomeCorrect:
		p.println(p.cat.T("AnswerCorrect"))
	case domain.OutcomeIncorrect:
		p.println(p.cat.Td("AnswerWrong", map[string]any{"Answer": q.CorrectOption()}))
	case domain.OutcomeTimedOut:
		// The prompt line is still open.
		p.println()
		p.println(p.cat.T("AnswerTimedOut"))
	default:
		p.println(p.cat.T("AnswerInvalid"))
	}
}

func (p *Presenter) RoundFinished(summary app.Summary) {
	r := summary.Result
	p.println()
	p.println(p.cat.T("SummaryTitle"))
	p.println(p.cat.Td("SummaryPlayer", map[string]any{"Player": r.PlayerName}))
	p.println(p.cat.Td("SummaryCorrect", map[string]any{"Correct": r.CorrectCount, "Total": r.QuestionCount}))
	p.println(p.cat.Td("SummaryScore", map[string]any{"Score": r.TotalScore}))
	p.println(p.cat.Td("SummaryPercentage", map[string]any{"Percentage": p.percentage(r.Percentage)}))
	p.println(p.cat.Tp("SummaryDuration", r.DurationSeconds, nil))
	if summary.SaveErr != nil {
		p.println(p.cat.Td("ScoreNotSaved", map[string]any{"Error": summary.SaveErr.Error()}))
		return
	}
	p.println(p.cat.T("ScoreSaved"))
}

// NoQuestions reports an empty sample; the caller skips the round.
func (p *Presenter) NoQuestions() {
	p.println(p.cat.T("NoQuestions"))
}

// Leaderboard prints ranked results, medals for the podium.
func (p *Presenter) Leaderboard(results []domain.RoundResult) {
	if len(results) == 0 {
		p.println(p.cat.T("LeaderboardEmpty"))
		return
	}
	p.println()
	p.println(p.cat.Td("LeaderboardTitle", map[string]any{"Count": len(results)}))
	for i, r := range results {
		rank := strconv.Itoa(i+1) + "."
		if i < len(medals) {
			rank = medals[i]
		}
		p.println(p.cat.Td("LeaderboardRow", map[string]any{
			"Rank":       rank,
			"Player":     r.PlayerName,
			"Score":      r.TotalScore,
			"Correct":    r.CorrectCount,
			"Total":      r.QuestionCount,
			"Percentage": p.percentage(r.Percentage),
			"Date":       shortDate(r.Timestamp),
			"Theme":      r.Theme,
		}))
	}
}

func (p *Presenter) Themes(themes []string) {
	if len(themes) == 0 {
		p.println(p.cat.T("ThemesEmpty"))
		return
	}
	p.println(p.cat.T("ThemesTitle"))
	for i, t := range themes {
		p.println(fmt.Sprintf("%d) %s", i+1, t))
	}
}

// Prompt writes a localized prompt without a trailing newline.
func (p *Presenter) Prompt(msgID string) {
	fmt.Fprint(p.out, p.cat.T(msgID))
}

// Promptd is Prompt with template data.
func (p *Presenter) Promptd(msgID string, data map[string]any) {
	fmt.Fprint(p.out, p.cat.Td(msgID, data))
}

// Say writes a localized line.
func (p *Presenter) Say(msgID string, data map[string]any) {
	p.println(p.cat.Td(msgID, data))
}

func (p *Presenter) percentage(v *float64) string {
	if v == nil {
		return p.cat.T("NotAvailable")
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}

func (p *Presenter) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func shortDate(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
