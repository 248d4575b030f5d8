package chrono

import (
	"botwise/internal/components/telemetry"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronAPI is the interface that anything depending on things to happen on a cron job should use.
type CronAPI interface {
	Cron(spec string, callback func()) error
}

// Parser accepts standard five field expressions, an optional leading seconds
// field and descriptors like @hourly.
var Parser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// Cron is the standard implementation of CronAPI using `github.com/robfig/cron/v3`.
//
// A job that is still running when its next tick fires is skipped rather than
// run twice, and a panicking job is recovered and reported.
type Cron struct {
	cron *cron.Cron
}

func NewCron(tel telemetry.API, location *time.Location) *Cron {
	logger := cronLogger{tel: telemetry.NewScopedAPI("cron", tel)}
	cronner := cron.New(
		cron.WithLogger(logger),
		cron.WithLocation(location),
		cron.WithParser(Parser),
		cron.WithChain(
			cron.SkipIfStillRunning(logger),
			// inside the skip guard so a panic still releases it
			cron.Recover(logger),
		),
	)
	return &Cron{cron: cronner}
}

func (c *Cron) Cron(spec string, callback func()) error {
	_, err := c.cron.AddFunc(spec, callback)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Next returns the next time any registered job will run, zero if there are none.
func (c *Cron) Next() time.Time {
	var next time.Time
	for _, entry := range c.cron.Entries() {
		if next.IsZero() || (!entry.Next.IsZero() && entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

func (c *Cron) Start() {
	c.cron.Start()
}

// Stop stops scheduling new jobs and waits for a running job to finish or ctx to
// be done, whichever comes first.
func (c *Cron) Stop(ctx context.Context) {
	done := c.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Validate reports whether spec is an expression Cron would accept.
func Validate(spec string) error {
	_, err := Parser.Parse(spec)
	return err
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i < len(keysAndValues)/2; i++ {
		idx := i * 2
		key := keysAndValues[idx]
		value := keysAndValues[idx+1]
		params = append(params, fmt.Sprintf("%v: %v", key, value))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(msg, l.formatParams(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	params := append([]any{fmt.Errorf("%s: %w", msg, err)}, l.formatParams(keysAndValues)...)
	l.tel.ReportBroken("job", params...)
}
