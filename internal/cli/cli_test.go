package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quisqueya-quiz/internal/config"
	"quisqueya-quiz/internal/domain"
)

const twoQuestions = `[
	{"id": 1, "theme": "Histoire", "niveau": "Facile", "texte": "Année de l'indépendance ?", "options": ["1804", "1791"], "bonne_option": 0},
	{"id": 2, "theme": "Histoire", "niveau": "Moyen", "texte": "Premier empereur ?", "options": ["Dessalines", "Christophe"], "bonne_option": 0}
]`

type workspace struct {
	questions string
	scores    string
}

func newWorkspace(t *testing.T, files map[string]string) workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace{questions: filepath.Join(root, "questions"), scores: filepath.Join(root, "scores.json")}
	if err := os.MkdirAll(ws.questions, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(ws.questions, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return ws
}

func (ws workspace) args(extra ...string) []string {
	base := []string{
		"--config", filepath.Join(filepath.Dir(ws.scores), "absent.yaml"),
		"--env-file", filepath.Join(filepath.Dir(ws.scores), "absent.env"),
		"--questions-dir", ws.questions,
		"--scores-path", ws.scores,
	}
	return append(extra, base...)
}

func execute(t *testing.T, stdin string, args []string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readScores(t *testing.T, path string) []domain.RoundResult {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read scores: %v", err)
	}
	var results []domain.RoundResult
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("parse scores: %v", err)
	}
	return results
}

func TestPlayRecordsRound(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"histoire.json": twoQuestions})

	out, err := execute(t, "1\nabc\n", ws.args("play", "--player", "Ana", "--count", "5"))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	for _, want := range []string{"Question 1/2", "Question 2/2", "Bonne réponse !", "Réponse invalide", "Score enregistré."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	results := readScores(t, ws.scores)
	if len(results) != 1 {
		t.Fatalf("expected one saved round, got %d", len(results))
	}
	r := results[0]
	if r.PlayerName != "Ana" || r.QuestionCount != 2 || r.CorrectCount != 1 || r.IncorrectCount != 1 {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.Theme != "Histoire" || r.Level != domain.Mixed {
		t.Fatalf("expected Histoire/mixed, got %s/%s", r.Theme, r.Level)
	}
	if r.Percentage == nil || *r.Percentage != 50 {
		t.Fatalf("unexpected percentage %v", r.Percentage)
	}
}

func TestPlayPromptsForPlayerName(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"histoire.json": twoQuestions})

	out, err := execute(t, "\n1\n1\n", ws.args("play", "--lang", "en"))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, "Enter your name") {
		t.Errorf("expected name prompt:\n%s", out)
	}
	results := readScores(t, ws.scores)
	if len(results) != 1 || results[0].PlayerName != domain.DefaultPlayerName || results[0].TotalScore != 2 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestPlayWithoutMatchingQuestions(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"histoire.json": twoQuestions})

	out, err := execute(t, "", ws.args("play", "--player", "Ana", "--theme", "Sport"))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, "Aucune question disponible") {
		t.Errorf("expected empty-pool message:\n%s", out)
	}
	if _, err := os.Stat(ws.scores); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no round should touch the score file, stat err = %v", err)
	}
}

func TestLeaderboardCommand(t *testing.T) {
	ws := newWorkspace(t, nil)
	scores := `[
		{"id_partie": "a", "joueur_nom": "Ana", "date_heure": "2025-01-01T10:00:00.000000Z", "theme": "Histoire", "niveau": "Facile",
		 "nombre_questions": 10, "bonnes": 6, "mauvaises": 4, "score_total": 6, "pourcentage": 60.0, "duree_seconds": 50},
		{"id_partie": "b", "joueur_nom": "Jean", "date_heure": "2025-01-02T10:00:00.000000Z", "theme": "Sport", "niveau": "Facile",
		 "nombre_questions": 10, "bonnes": 9, "mauvaises": 1, "score_total": 9, "pourcentage": 90.0, "duree_seconds": 40}
	]`
	if err := os.WriteFile(ws.scores, []byte(scores), 0o644); err != nil {
		t.Fatalf("write scores: %v", err)
	}

	out, err := execute(t, "", ws.args("leaderboard", "--lang", "en"))
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out, "🥇 Jean") || !strings.Contains(out, "🥈 Ana") {
		t.Errorf("unexpected leaderboard:\n%s", out)
	}

	out, err = execute(t, "", ws.args("leaderboard", "--top", "0", "--theme", "Histoire"))
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if strings.Contains(out, "Jean") || !strings.Contains(out, "Ana") {
		t.Errorf("expected only the Histoire round:\n%s", out)
	}
}

func TestUnknownBackend(t *testing.T) {
	ws := newWorkspace(t, nil)
	_, err := execute(t, "", ws.args("leaderboard", "--scores-backend", "redis"))
	if !errors.Is(err, domain.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestAddQuestionThenThemes(t *testing.T) {
	ws := newWorkspace(t, nil)

	stdin := "\n\nQuelle est la devise d'Haïti ?\nL'union fait la force\n\nLiberté\nÉgalité\nhuit\n"
	out, err := execute(t, stdin, ws.args("add-question"))
	if err != nil {
		t.Fatalf("add-question: %v", err)
	}
	if !strings.Contains(out, "Question ajoutée") {
		t.Errorf("expected confirmation:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(ws.questions, "questions_custom.json"))
	if err != nil {
		t.Fatalf("read custom file: %v", err)
	}
	var added []domain.Question
	if err := json.Unmarshal(data, &added); err != nil {
		t.Fatalf("parse custom file: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("expected one question, got %d", len(added))
	}
	q := added[0]
	if q.Theme != defaultCustomTheme || q.Level != domain.LevelEasy || q.Options[1] != "Option 2" || q.CorrectIndex != 0 {
		t.Fatalf("unexpected question %+v", q)
	}

	out, err = execute(t, "", ws.args("themes"))
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	if !strings.Contains(out, "1) Culture générale") {
		t.Errorf("expected the new theme:\n%s", out)
	}
}

func TestMigrateCommand(t *testing.T) {
	ws := newWorkspace(t, nil)
	dbPath := filepath.Join(filepath.Dir(ws.scores), "scores.db")

	for i := 0; i < 2; i++ {
		if _, err := execute(t, "", ws.args("migrate", "--sqlite-path", dbPath)); err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
	}
	out, err := execute(t, "", ws.args("leaderboard", "--scores-backend", "sqlite", "--sqlite-path", dbPath))
	if err != nil {
		t.Fatalf("leaderboard on sqlite: %v", err)
	}
	if !strings.Contains(out, "Aucun score enregistré.") {
		t.Errorf("expected empty leaderboard:\n%s", out)
	}
}

func TestDraftQuestionBuild(t *testing.T) {
	cases := []struct {
		name        string
		draft       draftQuestion
		wantCorrect int
		wantOptions []string
	}{
		{"valid", draftQuestion{text: "?", options: []string{"a", "b", "c", "d"}, correct: "3"}, 2, []string{"a", "b", "c", "d"}},
		{"out of range", draftQuestion{options: []string{"a", "b", "c", "d"}, correct: "5"}, 0, []string{"a", "b", "c", "d"}},
		{"blank options", draftQuestion{options: []string{"", "b"}, correct: "2"}, 1, []string{"Option 1", "b", "Option 3", "Option 4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.draft.build(1700000000)
			if q.CorrectIndex != tc.wantCorrect {
				t.Fatalf("expected correct index %d, got %d", tc.wantCorrect, q.CorrectIndex)
			}
			for i, want := range tc.wantOptions {
				if q.Options[i] != want {
					t.Fatalf("option %d: expected %q, got %q", i, want, q.Options[i])
				}
			}
			if q.ID != 1700000000 || q.Theme != defaultCustomTheme || q.Level != domain.LevelEasy {
				t.Fatalf("unexpected defaults %+v", q)
			}
		})
	}
}

func TestClampTop(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 10: 10, 50: 50, 99: 50} {
		if got := clampTop(in); got != want {
			t.Errorf("clampTop(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestQuickModeOverridesRoundOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Round.Count = 3
	cfg.Round.Balanced = true

	cmd := NewPlayCmd(&settings{cfg: cfg})
	if err := cmd.ParseFlags([]string{"--quick", "--theme", "Histoire", "--count", "4"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts := roundOptionsFor(cmd, cfg)
	if opts.count != quickCount || opts.timeLimit != quickTimeLimit || opts.balanced || opts.themes != nil {
		t.Fatalf("unexpected quick options %+v", opts)
	}

	cmd = NewPlayCmd(&settings{cfg: cfg})
	if err := cmd.ParseFlags([]string{"--time-limit", "20s"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts = roundOptionsFor(cmd, cfg)
	if opts.count != 3 || !opts.balanced || opts.timeLimit != 20*time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}
}
