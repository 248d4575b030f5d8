package commands

import (
	"botwise/internal/bot"
	"botwise/internal/components/telemetry"
	"botwise/internal/config"
	"botwise/internal/peerwise"
	"botwise/internal/store"
	"botwise/lib/serviceutil"
	libtelemetry "botwise/lib/telemetry"
	"context"
	"log/slog"
	"time"
)

const serviceName = "botwise"

type app struct {
	cfg       config.Config
	tel       telemetry.API
	questions *store.Store
	otel      libtelemetry.Telemetry
}

// setup loads everything a run needs, any failure here is fatal.
func setup(ctx context.Context) app {
	cfg, err := config.Load()
	if err != nil {
		serviceutil.Fatal("failed to load config", err)
	}
	libtelemetry.InitSlog(cfg.Debug)

	otel, err := libtelemetry.SetupFromEnv(ctx, serviceName)
	if err != nil {
		serviceutil.Fatal("failed to set up telemetry", err)
	}

	questions, err := store.Open(cfg.DatabasePath)
	if err != nil {
		serviceutil.Fatal("failed to open question store", err)
	}

	return app{
		cfg:       cfg,
		tel:       telemetry.SlogAPI{},
		questions: questions,
		otel:      otel,
	}
}

func (a app) close() {
	err := a.questions.Close()
	if err != nil {
		slog.Warn("failed to close question store", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err = a.otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shut down telemetry", "err", err)
	}
}

// fatal releases the app before exiting, deferred calls do not run on exit.
func (a app) fatal(message string, err error) {
	a.close()
	serviceutil.Fatal(message, err)
}

func (a app) newClient() (*peerwise.Client, error) {
	endpoints, err := peerwise.NewEndpoints(a.cfg.BaseUrl, a.cfg.Institution, a.cfg.Course)
	if err != nil {
		return nil, err
	}
	return peerwise.NewClient(peerwise.ClientOptions{
		Endpoints: endpoints,
		Credentials: peerwise.Credentials{
			User:        a.cfg.User,
			Pass:        a.cfg.Pass,
			Institution: a.cfg.Institution,
		},
		CloudflareBypass: true,
	}, a.tel)
}

func (a app) bot() bot.Bot {
	return bot.New(a.questions, func() (bot.Session, error) {
		return a.newClient()
	}, a.tel)
}

// checkAuth logs in once with a throwaway session.
func (a app) checkAuth(ctx context.Context) error {
	client, err := a.newClient()
	if err != nil {
		return err
	}
	return client.LogIn(ctx)
}

// openStore opens just the question store, for commands that do not talk to
// the platform.
func openStore() *store.Store {
	path, err := config.LoadDatabasePath()
	if err != nil {
		serviceutil.Fatal("failed to load config", err)
	}
	questions, err := store.Open(path)
	if err != nil {
		serviceutil.Fatal("failed to open question store", err)
	}
	return questions
}
