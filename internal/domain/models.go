package domain

import "strings"

// Conventional difficulty levels. The set is open; these are the buckets used for balanced sampling.
const (
	LevelEasy   = "Facile"
	LevelMedium = "Moyen"
	LevelHard   = "Difficile"
)

// Mixed is recorded as the theme or level of a round whose questions span more than one value.
const Mixed = "mixed"

// DefaultPlayerName replaces an empty player name.
const DefaultPlayerName = "Joueur"

// Question models an MCQ question with exactly one correct option.
// Values are never mutated after load.
type Question struct {
	ID           int      `json:"id"`
	Theme        string   `json:"theme"`
	Level        string   `json:"niveau"`
	Text         string   `json:"texte"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"bonne_option"` // zero-based
}

// Correct reports whether the zero-based choice is the right option.
func (q Question) Correct(choice int) bool {
	return choice == q.CorrectIndex
}

// CorrectOption returns the text of the right option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// SameLevel compares difficulty tags case-insensitively.
func SameLevel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// RoundResult is the persisted summary of one completed round.
type RoundResult struct {
	ID              string   `json:"id_partie"`
	PlayerName      string   `json:"joueur_nom"`
	Timestamp       string   `json:"date_heure"` // ISO-8601, UTC
	Theme           string   `json:"theme"`
	Level           string   `json:"niveau"`
	QuestionCount   int      `json:"nombre_questions"`
	CorrectCount    int      `json:"bonnes"`
	IncorrectCount  int      `json:"mauvaises"`
	TotalScore      int      `json:"score_total"`
	Percentage      *float64 `json:"pourcentage,omitempty"` // nil for entries written without one
	DurationSeconds int      `json:"duree_seconds"`
}

// Validate checks the counting invariants of a result.
func (r RoundResult) Validate() error {
	if r.QuestionCount < 0 || r.CorrectCount < 0 || r.IncorrectCount < 0 || r.TotalScore < 0 || r.DurationSeconds < 0 {
		return ErrInvalidResult
	}
	if r.CorrectCount+r.IncorrectCount != r.QuestionCount {
		return ErrInvalidResult
	}
	return nil
}

// Outcome classifies how a single question was answered.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeTimedOut  Outcome = "timed_out"
)

// AnswerResult summarizes the outcome of one question within a round.
type AnswerResult struct {
	QuestionID int
	Raw        string
	Outcome    Outcome
}

// LoadIssue describes a question record or file skipped at load time.
type LoadIssue struct {
	Path string
	ID   string // best-effort id of the record, empty for file-level issues
	Err  error
}

func (i LoadIssue) Error() string {
	if i.ID == "" {
		return i.Path + ": " + i.Err.Error()
	}
	return i.Path + " (id " + i.ID + "): " + i.Err.Error()
}

func (i LoadIssue) Unwrap() error { return i.Err }
