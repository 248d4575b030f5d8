package peerwise

import (
	"botwise/lib/htmlutil"
	"botwise/lib/textutil"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Outcome int

const (
	Incorrect Outcome = iota
	Correct
)

func (o Outcome) String() string {
	if o == Correct {
		return "correct"
	}
	return "incorrect"
}

const (
	// the option that was picked and is also the author's answer
	correctMarkerSelector = "td.displayCircleAndHighlightOption"
	// the author's answer when it differs from the option that was picked
	suggestedMarkerSelector = "td.displayHighlightOption"
	questionTextSelector    = "#questionDisplay"
)

// the question text is only logged, and it can be long
const questionTextLogLimit = 200

// Verdict is what an answer result page says about the submitted answer.
type Verdict struct {
	Outcome Outcome
	// the normalized text of the author's answer, only set for Incorrect when
	// the page shows it
	Suggested string
}

// Classify reads the outcome off the page shown after submitting an answer.
func Classify(doc *goquery.Document) Verdict {
	if doc.Find(correctMarkerSelector).Length() > 0 {
		return Verdict{Outcome: Correct}
	}
	suggested, _ := htmlutil.NormalizedText(doc.Find(suggestedMarkerSelector))
	return Verdict{Outcome: Incorrect, Suggested: suggested}
}

// QuestionText returns the normalized text of the question on a question page.
func QuestionText(doc *goquery.Document) (string, bool) {
	return htmlutil.NormalizedText(doc.Find(questionTextSelector))
}

func (c *Client) checkAnswerResponse(stage Stage, questionId int64, res *resty.Response) (*goquery.Document, error) {
	if res.StatusCode() != http.StatusOK {
		err := &AnswerError{
			Stage:      stage,
			QuestionId: questionId,
			Status:     res.StatusCode(),
			Location:   res.Header().Get("Location"),
		}
		c.tel.ReportWarning(report_client_answer, err)
		return nil, err
	}
	doc, err := htmlutil.Parse(res.Body())
	if err != nil {
		return nil, fmt.Errorf("peerwise: %s %d: parse html: %w", stage, questionId, err)
	}
	return doc, nil
}

// Answer opens the question, submits answerLetter and classifies the result.
// A redirect or any status other than 200 is returned as an *AnswerError.
func (c *Client) Answer(ctx context.Context, questionId int64, answerLetter string) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "client:Answer")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("question_id", questionId),
		attribute.String("answer_letter", answerLetter),
	)

	fail := func(err error) (Outcome, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Incorrect, err
	}

	c.tel.ReportInfo("answering question", questionId, answerLetter)
	id := strconv.FormatInt(questionId, 10)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"cmd": "answerQuestion",
			"id":  id,
		}).
		Get(c.endpoints.Question)
	if err != nil {
		return fail(fmt.Errorf("peerwise: %s %d: %w", StageView, questionId, err))
	}
	doc, err := c.checkAnswerResponse(StageView, questionId, res)
	if err != nil {
		return fail(err)
	}
	text, ok := QuestionText(doc)
	if ok {
		c.tel.ReportInfo("question text", questionId, textutil.Truncate(text, questionTextLogLimit))
	} else {
		c.tel.ReportWarning(report_client_answer, "question text not found", questionId)
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"answer": answerLetter,
			"cmd":    "saveAnswer",
			"id":     id,
		}).
		Post(c.endpoints.Question)
	if err != nil {
		return fail(fmt.Errorf("peerwise: %s %d: %w", StageSubmit, questionId, err))
	}
	doc, err = c.checkAnswerResponse(StageSubmit, questionId, res)
	if err != nil {
		return fail(err)
	}

	verdict := Classify(doc)
	span.SetAttributes(attribute.String("outcome", verdict.Outcome.String()))
	switch {
	case verdict.Outcome == Correct:
		c.tel.ReportInfo("answer was correct", questionId)
	case verdict.Suggested != "":
		c.tel.ReportWarning(report_client_answer, "author suggests a different answer", questionId, verdict.Suggested)
	default:
		c.tel.ReportWarning(report_client_answer, "wrong answer, could not determine correct answer", questionId)
	}
	return verdict.Outcome, nil
}
