// Package store is the persisted queue of questions the bot works through.
package store

import (
	"botwise/internal/store/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var (
	// ErrNoQuestions is returned by NextUnanswered when the queue is empty.
	ErrNoQuestions         = errors.New("no unanswered questions")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAlreadyAnswered     = errors.New("question already answered")
	ErrInvalidAnswerLetter = errors.New("answer letter must be a single letter A-Z")
)

// StorageError wraps every failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

type Question struct {
	ID           int64
	QuestionID   int64
	AnswerLetter string
	Answered     bool
	// nil until the question has been attempted
	Correct *bool
	Created time.Time
}

func questionFromRow(row db.Question) Question {
	q := Question{
		ID:           row.ID,
		QuestionID:   row.QuestionID,
		AnswerLetter: row.AnswerLetter,
		Answered:     row.Answered,
		Created:      time.Unix(row.Created, 0),
	}
	if row.Correct.Valid {
		correct := row.Correct.Bool
		q.Correct = &correct
	}
	return q
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

// NewStore wraps an already opened database, the schema must already exist.
func NewStore(database *sql.DB) *Store {
	return &Store{
		db:  database,
		qry: db.New(database),
	}
}

func isRemote(path string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://", "wss://", "ws://"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

// Open opens the store at path, creating the database file and schema if they
// do not exist yet. path is either a filesystem path, `:memory:` or a libsql url.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, storageError("open", fmt.Errorf("a path was not specified"))
	}

	var database *sql.DB
	var err error
	if isRemote(path) {
		database, err = sql.Open("libsql", path)
		if err != nil {
			return nil, storageError("open", err)
		}
	} else {
		database, err = openSqlite(path)
		if err != nil {
			return nil, storageError("open", err)
		}
	}

	_, err = database.Exec(db.Schema)
	if err != nil {
		database.Close()
		return nil, storageError("create schema", err)
	}
	return NewStore(database), nil
}

func openSqlite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, err
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single writer connection, which also keeps a `:memory:` database alive
	// for the lifetime of the handle
	database.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = database.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			database.Close()
			return nil, err
		}
	}
	return database, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NextUnanswered returns the earliest inserted question that has not been
// attempted yet, or ErrNoQuestions.
func (s *Store) NextUnanswered(ctx context.Context) (Question, error) {
	row, err := s.qry.GetNextUnanswered(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNoQuestions
	}
	if err != nil {
		return Question{}, storageError("next unanswered", err)
	}
	return questionFromRow(row), nil
}

// RecordOutcome marks the question as answered with the given outcome, the
// change is committed before it returns.
func (s *Store) RecordOutcome(ctx context.Context, id int64, correct bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("record outcome", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	affected, err := txqry.RecordOutcome(ctx, db.RecordOutcomeParams{
		Correct: correct,
		ID:      id,
	})
	if err != nil {
		return storageError("record outcome", err)
	}
	if affected == 0 {
		_, err := txqry.GetQuestion(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return storageError("record outcome", fmt.Errorf("%w: id %d", ErrQuestionNotFound, id))
		}
		if err != nil {
			return storageError("record outcome", err)
		}
		return storageError("record outcome", fmt.Errorf("%w: id %d", ErrAlreadyAnswered, id))
	}

	err = tx.Commit()
	if err != nil {
		return storageError("record outcome", err)
	}
	return nil
}

// NormalizeAnswerLetter upper-cases letter and checks that it is a single letter.
func NormalizeAnswerLetter(letter string) (string, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return "", fmt.Errorf("%w: %q", ErrInvalidAnswerLetter, letter)
	}
	return letter, nil
}

// Add queues a new question at the back of the queue.
func (s *Store) Add(ctx context.Context, questionId int64, answerLetter string) (Question, error) {
	letter, err := NormalizeAnswerLetter(answerLetter)
	if err != nil {
		return Question{}, err
	}
	row, err := s.qry.CreateQuestion(ctx, db.CreateQuestionParams{
		QuestionID:   questionId,
		AnswerLetter: letter,
	})
	if err != nil {
		return Question{}, storageError("add", err)
	}
	return questionFromRow(row), nil
}

// List returns every question in insertion order.
func (s *Store) List(ctx context.Context) ([]Question, error) {
	rows, err := s.qry.ListQuestions(ctx)
	if err != nil {
		return nil, storageError("list", err)
	}
	out := make([]Question, len(rows))
	for i, r := range rows {
		out[i] = questionFromRow(r)
	}
	return out, nil
}
