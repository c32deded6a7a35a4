package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/auth"
	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/jrsteele09/go-events-client/internal/logging"
	"github.com/jrsteele09/go-events-client/sessions"
	"github.com/jrsteele09/go-events-client/storage"
	"github.com/rs/zerolog"
)

type rootOptions struct {
	configFile string
	baseURL    string
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	session *sessions.Context
	client  *api.Client
	auth    *auth.Service
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.GetLogLevel(),
		Pretty: cfg.GetLogPretty(),
		App:    cfg.GetAppName(),
		Env:    cfg.GetEnv(),
	})

	slot, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	session := sessions.New(slot, sessions.WithLogger(logger), sessions.WithSessionConfig(cfg))
	if err := session.Hydrate(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not restore session")
	}

	baseURL := cfg.GetBaseURL()
	if opts.baseURL != "" {
		baseURL = opts.baseURL
	}
	client, err := api.New(baseURL, session, api.WithLogger(logger), api.WithAPIConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		session: session,
		client:  client,
		auth:    auth.NewService(client, auth.WithLogger(logger)),
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
