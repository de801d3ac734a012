// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ielts-speaking/backend/internal/domain/questionbank"
	"github.com/ielts-speaking/backend/internal/domain/speaking"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    part INTEGER NOT NULL CHECK (part BETWEEN 1 AND 3),
    topic TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,
    UNIQUE (part, text)
);

CREATE INDEX IF NOT EXISTS idx_questions_part ON questions(part);
`

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens the question bank at dbPath, applies the schema and
// loads the built-in questions when the bank is empty.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}

	total, err := s.CountQuestions(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}
	if total == 0 {
		banks, err := LoadSeed(seedYAML)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := s.SaveBanks(context.Background(), banks); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed questions: %w", err)
		}
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Questions
// ============================================================================

func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *questionbank.Question) error {
	query, args, err := insertQuestion(q).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// SaveBanks inserts every question of banks in one transaction. Questions
// already present for the same part are skipped.
func (s *SQLiteStore) SaveBanks(ctx context.Context, banks []*questionbank.QuestionBank) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, bank := range banks {
		for i := range bank.Questions {
			query, args, err := insertQuestion(&bank.Questions[i]).Options("OR IGNORE").ToSql()
			if err != nil {
				return fmt.Errorf("build query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertQuestion(q *questionbank.Question) sq.InsertBuilder {
	return sq.Insert("questions").
		Columns("id", "part", "topic", "text").
		Values(q.ID, int(q.Part), q.Topic, q.Text)
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (*questionbank.Question, error) {
	query, args, err := selectQuestions().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var q questionbank.Question
	var part int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&q.ID, &part, &q.Topic, &q.Text)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	q.Part = speaking.Part(part)
	return &q, nil
}

// ListQuestions returns every question of part, ordered by topic.
func (s *SQLiteStore) ListQuestions(ctx context.Context, part speaking.Part) ([]questionbank.Question, error) {
	query, args, err := selectQuestions().
		Where(sq.Eq{"part": int(part)}).
		OrderBy("topic", "text").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []questionbank.Question
	for rows.Next() {
		var q questionbank.Question
		var p int
		if err := rows.Scan(&q.ID, &p, &q.Topic, &q.Text); err != nil {
			return nil, err
		}
		q.Part = speaking.Part(p)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SampleQuestions returns up to n distinct questions of part in random
// order.
func (s *SQLiteStore) SampleQuestions(ctx context.Context, part speaking.Part, n int) ([]questionbank.Question, error) {
	questions, err := s.ListQuestions(ctx, part)
	if err != nil {
		return nil, err
	}
	return lo.Samples(questions, n), nil
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("questions").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByPart returns the number of questions per part. Parts without
// questions are reported as 0.
func (s *SQLiteStore) CountByPart(ctx context.Context) (map[speaking.Part]int, error) {
	query, args, err := sq.Select("part", "COUNT(*)").From("questions").GroupBy("part").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[speaking.Part]int{speaking.Part1: 0, speaking.Part2: 0, speaking.Part3: 0}
	for rows.Next() {
		var part, n int
		if err := rows.Scan(&part, &n); err != nil {
			return nil, err
		}
		counts[speaking.Part(part)] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id string) error {
	query, args, err := sq.Delete("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func selectQuestions() sq.SelectBuilder {
	return sq.Select("id", "part", "topic", "text").From("questions")
}
