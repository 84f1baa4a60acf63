// notifyctl is the command-line front end to the indiriim
// marketing-notification platform: sign in, inspect campaigns, segments,
// templates and automations, and adjust delivery settings.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/indiriim/go-notify-admin/apiclient"
	"github.com/indiriim/go-notify-admin/auth"
	"github.com/indiriim/go-notify-admin/broadcast"
	"github.com/indiriim/go-notify-admin/internal/config"
	"github.com/indiriim/go-notify-admin/platform"
	"github.com/indiriim/go-notify-admin/session"
)

const appName = "notifyctl"

type app struct {
	cfg      config.Config
	store    *session.Store
	client   *apiclient.Client
	auth     *auth.Service
	platform *platform.Service
	log      zerolog.Logger
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", apiclient.UserMessage(err))
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	a, closeStore, err := newApp()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "notifications":
		return a.cmdNotifications(ctx, args)
	case "segments":
		return a.cmdSegments(ctx, args)
	case "templates":
		return a.cmdTemplates(ctx, args)
	case "automations":
		return a.cmdAutomations(ctx, args)
	case "settings":
		return a.cmdSettings(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func newApp() (*app, func(), error) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	repo, closeStore, err := openRepo(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := session.NewStore(repo)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	bus := broadcast.New()
	bus.Subscribe(func(e broadcast.Event) {
		log.Warn().Str("errorCode", e.ErrorCode).Msg(e.Message)
	})

	client, err := apiclient.New(cfg.ResolvedAPIURL(), store,
		apiclient.WithBroadcaster(bus),
		apiclient.WithLogger(log),
		apiclient.WithSessionExpiredFunc(func() {
			log.Warn().Msg("session expired, run 'notifyctl login' to sign in again")
		}),
	)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	authSvc, err := auth.NewService(client, store, cfg.ResolvedAPIURL(), auth.WithLogger(log))
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	client.SetRefresher(authSvc)

	platformSvc, err := platform.NewService(client)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		client:   client,
		auth:     authSvc,
		platform: platformSvc,
		log:      log,
	}, closeStore, nil
}

func openRepo(cfg config.Config) (session.Repo, func(), error) {
	if cfg.SessionDB != "" {
		repo, err := session.NewSQLiteRepo(cfg.SessionDB)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	}
	repo, err := session.NewFileRepo(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {}, nil
}

func usage() {
	figure.NewFigure(appName, "", true).Print()
	fmt.Println(`
Usage: notifyctl <command> [flags]

Commands:
  login          -email -password         sign in to the platform
  logout                                  sign out and clear the local session
  whoami                                  show the current user and capabilities
  dashboard                               campaign counts and recent activity
  notifications  list|create              browse or create campaigns
  segments       list|create|update       manage audience segments
  templates      list|create|update|delete manage message templates
  automations    list                     browse automation flows
  settings       show|set-distribution    view or tune delivery settings

Environment:
  INDIRIIM_API_URL     platform API base URL (default http://localhost:8092)
  INDIRIIM_DATA_DIR    directory for the persisted session
  INDIRIIM_SESSION_DB  optional SQLite file replacing the directory store`)
}
