package bot

import (
	"botwise/internal/components/telemetry"
	"botwise/internal/peerwise"
	"botwise/internal/store"
	"botwise/lib/testutil"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type answerResult struct {
	outcome peerwise.Outcome
	err     error
}

type fakeSession struct {
	loginErr error
	results  map[int64]answerResult
	answered []int64
	loggedIn bool
}

func (s *fakeSession) LogIn(ctx context.Context) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.loggedIn = true
	return nil
}

func (s *fakeSession) Answer(ctx context.Context, questionId int64, answerLetter string) (peerwise.Outcome, error) {
	if !s.loggedIn {
		return peerwise.Incorrect, errors.New("not logged in")
	}
	s.answered = append(s.answered, questionId)
	result, ok := s.results[questionId]
	if !ok {
		return peerwise.Incorrect, nil
	}
	return result.outcome, result.err
}

func newBot(s QuestionStore, session *fakeSession) (Bot, *telemetry.Recorder) {
	rec := &telemetry.Recorder{}
	b := New(s, func() (Session, error) {
		return session, nil
	}, rec)
	return b, rec
}

func TestRunIncorrectThenCorrect(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{
		Seed: []testutil.SeedQuestion{
			{QuestionID: 501, AnswerLetter: "B"},
			{QuestionID: 502, AnswerLetter: "A"},
		},
	})
	session := &fakeSession{results: map[int64]answerResult{
		501: {outcome: peerwise.Incorrect},
		502: {outcome: peerwise.Correct},
	}}
	b, _ := newBot(s, session)

	state, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateStopped, state)
	require.Equal(t, []int64{501, 502}, session.answered)

	first := testutil.GetQuestion(t, s, 1)
	require.True(t, first.Answered)
	require.False(t, *first.Correct)

	second := testutil.GetQuestion(t, s, 2)
	require.True(t, second.Answered)
	require.True(t, *second.Correct)
}

func TestRunStopsAtFirstCorrect(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{
		Seed: []testutil.SeedQuestion{
			{QuestionID: 501, AnswerLetter: "B"},
			{QuestionID: 502, AnswerLetter: "A"},
		},
	})
	session := &fakeSession{results: map[int64]answerResult{
		501: {outcome: peerwise.Correct},
	}}
	b, _ := newBot(s, session)

	state, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateStopped, state)
	require.Equal(t, []int64{501}, session.answered)

	next, err := s.NextUnanswered(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(502), next.QuestionID)
}

func TestRunEmptyStore(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{})
	session := &fakeSession{}
	b, rec := newBot(s, session)

	state, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateExhausted, state)
	require.Empty(t, session.answered)

	warnings := rec.Find(telemetry.LevelWarning, report_bot_run)
	require.Len(t, warnings, 1)
	require.Equal(t, "no more questions", warnings[0].Params[0])
}

func TestRunExhaustedAfterWrongAnswers(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{
		Seed: []testutil.SeedQuestion{
			{QuestionID: 10, AnswerLetter: "A"},
			{QuestionID: 11, AnswerLetter: "B"},
		},
	})
	session := &fakeSession{}
	b, _ := newBot(s, session)

	state, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateExhausted, state)
	require.Equal(t, []int64{10, 11}, session.answered)
}

func TestRunAnswerErrorLeavesQuestion(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{
		Seed: []testutil.SeedQuestion{{QuestionID: 501, AnswerLetter: "B"}},
	})
	redirect := &peerwise.AnswerError{
		Stage:      peerwise.StageView,
		QuestionId: 501,
		Status:     302,
		Location:   "main.php",
	}
	session := &fakeSession{results: map[int64]answerResult{
		501: {err: redirect},
	}}
	b, rec := newBot(s, session)

	state, err := b.Run(context.Background())
	require.ErrorIs(t, err, peerwise.ErrRedirected)
	require.Equal(t, StateAborted, state)

	q := testutil.GetQuestion(t, s, 1)
	require.False(t, q.Answered)
	require.Nil(t, q.Correct)

	b.Job(context.Background())()
	require.Len(t, rec.Find(telemetry.LevelWarning, report_bot_job), 1)
	require.Empty(t, rec.Find(telemetry.LevelBroken, report_bot_job))
}

func TestRunLoginFailure(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{
		Seed: []testutil.SeedQuestion{{QuestionID: 501, AnswerLetter: "B"}},
	})
	loginErr := &peerwise.AuthError{Reason: peerwise.ErrLoginRejected, Status: 200}
	session := &fakeSession{loginErr: loginErr}
	b, rec := newBot(s, session)

	state, err := b.Run(context.Background())
	require.ErrorIs(t, err, peerwise.ErrLoginRejected)
	require.Equal(t, StateIdle, state)
	require.Empty(t, session.answered)

	b.Job(context.Background())()
	require.Len(t, rec.Find(telemetry.LevelBroken, report_bot_job), 1)
}

type brokenStore struct {
	QuestionStore
	err error
}

func (s brokenStore) NextUnanswered(ctx context.Context) (store.Question, error) {
	return store.Question{}, s.err
}

func TestRunStorageFailure(t *testing.T) {
	storageErr := &store.StorageError{Op: "next unanswered", Err: errors.New("disk I/O error")}
	session := &fakeSession{}
	b, _ := newBot(brokenStore{err: storageErr}, session)

	state, err := b.Run(context.Background())
	var target *store.StorageError
	require.True(t, errors.As(err, &target))
	require.Equal(t, StateLoggedIn, state)
}

func TestRunSessionFactoryFailure(t *testing.T) {
	s := testutil.SetupStore(t, testutil.StoreParams{})
	b := New(s, func() (Session, error) {
		return nil, errors.New("no cookie jar")
	}, &telemetry.Recorder{})

	state, err := b.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, StateIdle, state)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "stopped", StateStopped.String())
	require.Equal(t, "exhausted", StateExhausted.String())
	require.Equal(t, "state(42)", State(42).String())
}
