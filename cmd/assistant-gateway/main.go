package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/agentrt"
	"github.com/cekat/assistant-gateway/pkg/attach"
	"github.com/cekat/assistant-gateway/pkg/config"
	"github.com/cekat/assistant-gateway/pkg/convert"
	"github.com/cekat/assistant-gateway/pkg/facts"
	"github.com/cekat/assistant-gateway/pkg/httpapi"
	"github.com/cekat/assistant-gateway/pkg/nav"
	"github.com/cekat/assistant-gateway/pkg/profile"
	"github.com/cekat/assistant-gateway/pkg/session"
	"github.com/cekat/assistant-gateway/pkg/tools"
	"github.com/cekat/assistant-gateway/pkg/widget"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		With().Timestamp().Logger().Level(level)

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	prof, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load assistant profile")
	}

	factStore, err := facts.NewSQLiteStore(cfg.Facts.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open fact store")
	}
	defer factStore.Close()

	var attachments attach.Store
	switch cfg.Attachments.Backend {
	case "s3":
		attachments, err = attach.NewS3Store(context.Background(), attach.S3Config{
			Bucket:    cfg.Attachments.Bucket,
			Region:    cfg.Attachments.Region,
			KeyPrefix: cfg.Attachments.Prefix,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 attachment store")
		}
	default:
		attachments = attach.NewMemoryStore()
	}

	runner := agentrt.NewOpenAIRunner(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, prof.Model, log)
	converter := convert.NewConverter(attachments, convert.SkipAndWarn, log)

	navigator := nav.NewNavigator(nav.LogOpener{Log: log}, log)
	registry := tools.NewRegistry()
	tools.RegisterBuiltins(registry, tools.Hooks{
		Navigator: navigator,
		Titles:    &nav.TitleResolver{},
		SaveFact: func(ctx context.Context, factID, factText string) error {
			_, err := factStore.Save(ctx, factID, factText)
			return err
		},
		OnError: func(err error) {
			log.Err(err).Msg("Out-of-band tool failure")
		},
	}, log)
	dispatcher := tools.NewDispatcher(registry, log)

	sessions := session.NewManager(func(threadID string) *session.Orchestrator {
		return session.NewOrchestrator(threadID, prof, converter, dispatcher, runner, log)
	}, time.Duration(cfg.Sessions.MaxAgeHours)*time.Hour, log)
	if err := sessions.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session manager")
	}
	defer sessions.Stop()

	var relay *widget.RelayClient
	if cfg.Widget.RelayEndpoint != "" {
		relay = &widget.RelayClient{Endpoint: cfg.Widget.RelayEndpoint, Client: http.DefaultClient}
	}
	widgetRouter := widget.NewRouter(
		navigator,
		widget.DirSaver{Dir: cfg.Downloads.Dir},
		widget.LogNotifier{Log: log},
		relay,
		http.DefaultClient,
		log,
	)

	server := httpapi.NewServer(cfg.Server.Listen, sessions, widgetRouter, factStore, attachments, log)
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}
}
