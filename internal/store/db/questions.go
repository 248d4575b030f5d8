package db

import (
	"context"
	"database/sql"
)

type Question struct {
	ID           int64
	QuestionID   int64
	AnswerLetter string
	Answered     bool
	Correct      sql.NullBool
	// unix seconds
	Created int64
}

const questionColumns = `id, question_id, answer_letter, answered, correct, cast(strftime('%s', created) as integer)`

func scanQuestion(row interface{ Scan(...any) error }) (Question, error) {
	var i Question
	err := row.Scan(
		&i.ID,
		&i.QuestionID,
		&i.AnswerLetter,
		&i.Answered,
		&i.Correct,
		&i.Created,
	)
	return i, err
}

const createQuestion = `insert into questions (question_id, answer_letter)
values (?, ?)
returning ` + questionColumns

type CreateQuestionParams struct {
	QuestionID   int64
	AnswerLetter string
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.db.QueryRowContext(ctx, createQuestion, arg.QuestionID, arg.AnswerLetter)
	return scanQuestion(row)
}

const getQuestion = `select ` + questionColumns + ` from questions
where id = ?`

func (q *Queries) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row := q.db.QueryRowContext(ctx, getQuestion, id)
	return scanQuestion(row)
}

const getNextUnanswered = `select ` + questionColumns + ` from questions
where answered = false
order by id asc
limit 1`

func (q *Queries) GetNextUnanswered(ctx context.Context) (Question, error) {
	row := q.db.QueryRowContext(ctx, getNextUnanswered)
	return scanQuestion(row)
}

const listQuestions = `select ` + questionColumns + ` from questions
order by id asc`

func (q *Queries) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := q.db.QueryContext(ctx, listQuestions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		i, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const recordOutcome = `update questions
set answered = true, correct = ?
where id = ? and answered = false`

type RecordOutcomeParams struct {
	Correct bool
	ID      int64
}

func (q *Queries) RecordOutcome(ctx context.Context, arg RecordOutcomeParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, recordOutcome, arg.Correct, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
