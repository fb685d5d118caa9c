package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	. "github.com/stevegt/goadapt"

	httpadapter "github.com/PabloGalante/farum-chat/internal/adapters/http"
	"github.com/PabloGalante/farum-chat/internal/adapters/llm"
	"github.com/PabloGalante/farum-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-chat/internal/adapters/terminal"
	"github.com/PabloGalante/farum-chat/internal/app/conversation"
	"github.com/PabloGalante/farum-chat/internal/config"
	"github.com/PabloGalante/farum-chat/internal/domain"
	"github.com/PabloGalante/farum-chat/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// setup loads the configuration, resolves the credential and builds the
// service. Nothing here reads user input.
func setup(ctx context.Context, ov config.Overrides) (*config.Config, *conversation.Service, error) {
	cfg, err := config.Load(ov)
	if err != nil {
		return nil, nil, err
	}
	observability.SetLevel(cfg.LogLevel)

	var cred config.Credential
	if key := cfg.CredentialKey(); key != "" {
		cred, err = config.ResolveCredential(ctx, key, config.DefaultCredentialProviders(cfg)...)
		if err != nil {
			return nil, nil, err
		}
		observability.Logger().Debug("credential resolved", "key", key, "credential", cred.String())
	}

	client, err := llm.NewClient(ctx, llm.Settings{
		Provider: string(cfg.Provider),
		APIKey:   cred.Value(),
		BaseURL:  cfg.BaseURL(),
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := llm.NewTokenCounter()
	if err != nil {
		// counts are only reported in logs
		observability.Logger().Warn("token counter unavailable", "error", err)
	}

	history := conversation.HistoryFull
	if cfg.History == config.HistorySingle {
		history = conversation.HistorySingleTurn
	}

	opts := conversation.Options{
		Completion: domain.CompletionOptions{
			Model:           cfg.Model,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
			SystemPrompt:    cfg.SystemPrompt,
		},
		History:  history,
		Provider: client.Provider(),
	}
	if tokens != nil {
		opts.Tokens = tokens
	}

	svc := conversation.NewService(client, memory.NewSessionStore(), opts)
	return cfg, svc, nil
}

func runChat(flags cli, config *Config) (rc int, err error) {
	defer Return(&err)

	// logs go to stderr so they don't interleave with the conversation
	observability.SetOutput(config.Stderr)
	ov := flags.overrides()
	if !flags.Verbose {
		lvl := "warn"
		ov.LogLevel = &lvl
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, svc, err := setup(ctx, ov)
	if err != nil {
		if reportConfigError(config, err) {
			return rcConfigError, nil
		}
		Ck(err)
	}

	sessionID := domain.SessionID(flags.Chat.Session)
	if sessionID == "" {
		out, err := svc.StartSession(ctx)
		Ck(err)
		sessionID = out.Session.ID
	}

	display := terminal.NewDisplay(config.Stdin, config.Stdout)
	controller := conversation.NewController(svc, display, sessionID)
	controller.Attach(ctx)

	Fpf(config.Stdout, "%s %s. Type /quit to leave.\n", config.Name, Version)
	err = display.Run(ctx)
	Ck(err)
	return rcOK, nil
}

func runServe(flags cli, config *Config, port *string) (rc int, err error) {
	defer Return(&err)

	observability.SetOutput(config.Stderr)
	ov := flags.overrides()
	ov.Port = port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, svc, err := setup(ctx, ov)
	if err != nil {
		if reportConfigError(config, err) {
			return rcConfigError, nil
		}
		Ck(err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpadapter.NewServer(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		observability.Logger().Info("starting farum-chat server", "addr", cfg.Addr(), "provider", cfg.Provider, "model", cfg.Model)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return rcOK, nil
		}
		Ck(err)
	case <-ctx.Done():
	}

	observability.Logger().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	Ck(err)
	return rcOK, nil
}
