// Package bot works through the question queue: it logs in once per run and
// answers queued questions until one is answered correctly or the queue runs
// out.
package bot

import (
	"botwise/internal/components/assert"
	"botwise/internal/components/telemetry"
	"botwise/internal/peerwise"
	"botwise/internal/store"
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_bot_run = "bot.run"
	report_bot_job = "bot.job"
)

var tracer = otel.Tracer("botwise/bot")
var meter = otel.Meter("botwise/bot")
var answersCounter, _ = meter.Int64Counter(
	"answers",
	metric.WithDescription("answers submitted, by outcome"),
)

// State is where a run is in its lifecycle, the last state of a run is
// returned by Run.
type State int

const (
	StateIdle State = iota
	StateLoggedIn
	StateAttempting
	// the queue ran out before a correct answer
	StateExhausted
	// a question was answered correctly, nothing more to do until the next run
	StateStopped
	// the platform responded unexpectedly to a question, the question was left
	// unanswered for the next run
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoggedIn:
		return "logged in"
	case StateAttempting:
		return "attempting"
	case StateExhausted:
		return "exhausted"
	case StateStopped:
		return "stopped"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session is one logged in conversation with the quiz platform.
type Session interface {
	LogIn(ctx context.Context) error
	Answer(ctx context.Context, questionId int64, answerLetter string) (peerwise.Outcome, error)
}

// SessionFactory creates a fresh session, a new one is made for every run.
type SessionFactory func() (Session, error)

type QuestionStore interface {
	NextUnanswered(ctx context.Context) (store.Question, error)
	RecordOutcome(ctx context.Context, id int64, correct bool) error
}

type Bot struct {
	store      QuestionStore
	newSession SessionFactory
	tel        telemetry.API
}

func New(questions QuestionStore, newSession SessionFactory, tel telemetry.API) Bot {
	assert.NotNil(questions)
	assert.NotNil(newSession)
	assert.NotNil(tel)

	return Bot{
		store:      questions,
		newSession: newSession,
		tel:        telemetry.NewScopedAPI("bot", tel),
	}
}

// Run performs one invocation: log in, then answer unanswered questions in
// order until one is correct or none remain.
//
// A failed login, a storage failure or an *peerwise.AnswerError ends the run
// with an error. In the last case the question being attempted is left
// unanswered so it is picked up again by the next run.
func (b Bot) Run(ctx context.Context) (State, error) {
	ctx, span := tracer.Start(ctx, "bot:Run")
	defer span.End()

	state := StateIdle
	fail := func(err error) (State, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("state", state.String()))
		return state, err
	}

	b.tel.ReportInfo("waking up to answer a question")

	session, err := b.newSession()
	if err != nil {
		return fail(fmt.Errorf("create session: %w", err))
	}
	err = session.LogIn(ctx)
	if err != nil {
		return fail(err)
	}
	state = StateLoggedIn
	b.tel.ReportInfo("logged in")

	for {
		question, err := b.store.NextUnanswered(ctx)
		if errors.Is(err, store.ErrNoQuestions) {
			b.tel.ReportWarning(report_bot_run, "no more questions")
			state = StateExhausted
			break
		}
		if err != nil {
			return fail(err)
		}
		state = StateAttempting

		outcome, err := session.Answer(ctx, question.QuestionID, question.AnswerLetter)
		if err != nil {
			var answerErr *peerwise.AnswerError
			if errors.As(err, &answerErr) {
				state = StateAborted
				b.tel.ReportWarning(report_bot_run, "could not answer, leaving it for the next run", question.ID, err)
			}
			return fail(err)
		}

		correct := outcome == peerwise.Correct
		err = b.store.RecordOutcome(ctx, question.ID, correct)
		if err != nil {
			return fail(err)
		}
		answersCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))

		if correct {
			b.tel.ReportInfo("all done, sleeping again", question.ID)
			state = StateStopped
			break
		}
		b.tel.ReportInfo("answer was wrong, trying again", question.ID)
	}

	span.SetAttributes(attribute.String("state", state.String()))
	return state, nil
}

// Job adapts Run into a callback for the scheduler. Failures are reported,
// never returned, so the next tick starts fresh.
func (b Bot) Job(ctx context.Context) func() {
	return func() {
		state, err := b.Run(ctx)
		var answerErr *peerwise.AnswerError
		switch {
		case err == nil:
			b.tel.ReportInfo("run finished", state.String())
		case errors.As(err, &answerErr):
			b.tel.ReportWarning(report_bot_job, state.String(), err)
		default:
			b.tel.ReportBroken(report_bot_job, state.String(), err)
		}
	}
}
