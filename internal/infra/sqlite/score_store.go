package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"

	"quisqueya-quiz/internal/domain"
	"quisqueya-quiz/internal/infra/sqlite/migrations"
)

type roundResultRow struct {
	bun.BaseModel `bun:"table:round_results"`

	Seq             int64    `bun:"seq,pk,autoincrement"`
	ID              string   `bun:"id,notnull"`
	PlayerName      string   `bun:"player_name,notnull"`
	PlayedAt        string   `bun:"played_at,notnull"`
	Theme           string   `bun:"theme,notnull"`
	Level           string   `bun:"level,notnull"`
	QuestionCount   int      `bun:"question_count"`
	CorrectCount    int      `bun:"correct_count"`
	IncorrectCount  int      `bun:"incorrect_count"`
	TotalScore      int      `bun:"total_score"`
	Percentage      *float64 `bun:"percentage"`
	DurationSeconds int      `bun:"duration_seconds"`
}

func toRow(r domain.RoundResult) roundResultRow {
	return roundResultRow{
		ID:              r.ID,
		PlayerName:      r.PlayerName,
		PlayedAt:        r.Timestamp,
		Theme:           r.Theme,
		Level:           r.Level,
		QuestionCount:   r.QuestionCount,
		CorrectCount:    r.CorrectCount,
		IncorrectCount:  r.IncorrectCount,
		TotalScore:      r.TotalScore,
		Percentage:      r.Percentage,
		DurationSeconds: r.DurationSeconds,
	}
}

func (row roundResultRow) toDomain() domain.RoundResult {
	return domain.RoundResult{
		ID:              row.ID,
		PlayerName:      row.PlayerName,
		Timestamp:       row.PlayedAt,
		Theme:           row.Theme,
		Level:           row.Level,
		QuestionCount:   row.QuestionCount,
		CorrectCount:    row.CorrectCount,
		IncorrectCount:  row.IncorrectCount,
		TotalScore:      row.TotalScore,
		Percentage:      row.Percentage,
		DurationSeconds: row.DurationSeconds,
	}
}

// ScoreStore keeps round results in a local SQLite file. Rows are returned in insertion order and
// ranked with the same rules as the JSON store.
type ScoreStore struct {
	db *bun.DB
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*ScoreStore, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewScoreStore(db), nil
}

// OpenDB opens the SQLite file without touching the schema.
func OpenDB(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate creates the migration bookkeeping tables if needed and applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if group.IsZero() {
		slog.Debug("score database up to date")
		return nil
	}
	slog.Info("migrations applied", "group", group.String())
	return nil
}

func NewScoreStore(db *bun.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) Close() error {
	return s.db.Close()
}

// LoadAll returns every result, oldest first. A failing query reads as an empty history.
func (s *ScoreStore) LoadAll(ctx context.Context) ([]domain.RoundResult, error) {
	return s.load(ctx, "")
}

func (s *ScoreStore) SaveScore(ctx context.Context, result domain.RoundResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	row := toRow(result)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert round result: %w", err)
	}
	return nil
}

func (s *ScoreStore) TopN(ctx context.Context, n int, theme string) ([]domain.RoundResult, error) {
	results, err := s.load(ctx, theme)
	if err != nil {
		return nil, err
	}
	return domain.TopN(results, n, theme), nil
}

func (s *ScoreStore) load(ctx context.Context, theme string) ([]domain.RoundResult, error) {
	var rows []roundResultRow
	q := s.db.NewSelect().Model(&rows).OrderExpr("seq ASC")
	if theme != "" {
		q = q.Where("theme = ?", theme)
	}
	if err := q.Scan(ctx); err != nil {
		slog.Warn("score database unreadable, treating as empty", "error", err)
		return []domain.RoundResult{}, nil
	}
	results := make([]domain.RoundResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}
	return results, nil
}
