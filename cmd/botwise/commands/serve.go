package commands

import (
	"botwise/internal/components/chrono"
	libtelemetry "botwise/lib/telemetry"
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func serve(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	slog.Info("starting up")

	a := setup(ctx)
	defer a.close()

	err := a.checkAuth(ctx)
	if err != nil {
		a.fatal("auth check failed", err)
	}
	slog.Info("auth is all good")

	location, err := chrono.LoadLocation(a.cfg.Timezone)
	if err != nil {
		a.fatal("failed to load timezone", err)
	}
	cron := chrono.NewCron(a.tel, location)
	err = cron.Cron(a.cfg.Schedule, a.bot().Job(ctx))
	if err != nil {
		a.fatal("failed to schedule bot", err)
	}
	cron.Start()
	libtelemetry.InstrumentPerfStats(ctx, time.Minute)

	slog.Info(
		"running with schedule",
		"schedule", a.cfg.Schedule,
		"timezone", location.String(),
		"next", cron.Next(),
	)
	<-ctx.Done()

	slog.Info("closing down")
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cron.Stop(stopCtx)
}
