package testutil

import (
	"botwise/internal/store"
	"context"
	"path/filepath"
	"testing"
)

type StoreParams struct {
	// if true, the store is backed by a file in a temporary directory instead of `:memory:`
	OnDisk bool
	// questions to queue up front, as (question id, answer letter) pairs
	Seed []SeedQuestion
}

type SeedQuestion struct {
	QuestionID   int64
	AnswerLetter string
}

// SetupStore opens a fresh question store for a test, it is closed when the
// test finishes.
func SetupStore(t testing.TB, params StoreParams) *store.Store {
	t.Helper()

	path := ":memory:"
	if params.OnDisk {
		path = filepath.Join(t.TempDir(), "questions.db")
	}
	s, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	for _, q := range params.Seed {
		_, err := s.Add(context.Background(), q.QuestionID, q.AnswerLetter)
		if err != nil {
			t.Fatal(err)
		}
	}
	return s
}

// GetQuestion returns the question with the given local id, failing the test
// if it does not exist.
func GetQuestion(t testing.TB, s *store.Store, id int64) store.Question {
	t.Helper()

	questions, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range questions {
		if q.ID == id {
			return q
		}
	}
	t.Fatalf("question %d does not exist", id)
	return store.Question{}
}
