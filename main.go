package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
	"github.com/aksjaiswal/stanverse/pkg/services/provider"
	"github.com/aksjaiswal/stanverse/pkg/services/session"
	"github.com/aksjaiswal/stanverse/pkg/services/stores"
	"github.com/aksjaiswal/stanverse/pkg/settings"
	"github.com/aksjaiswal/stanverse/pkg/web"
)

//go:embed htdocs
var static embed.FS

func main() {
	app := &cli.App{
		Name:    "stanverse",
		Usage:   "conversational partner with long-term memory",
		Version: settings.Current.Version,
		Before: func(cc *cli.Context) error {
			var zlogger *zap.Logger
			if settings.InDevelop() {
				zlogger, _ = zap.NewDevelopment()
			} else {
				zlogger, _ = zap.NewProduction()
			}
			zap.ReplaceGlobals(zlogger)
			return nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP service",
				Action: runServe,
			},
			{
				Name:  "clear",
				Usage: "durably clear one user's chat history",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Value: settings.Current.UserID, Usage: "user identifier"},
				},
				Action: runClear,
			},
			{
				Name:  "usage",
				Usage: "print configuration help",
				Action: func(cc *cli.Context) error {
					return settings.Usage()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.S().Fatalw("run fail", "err", err)
	}
}

func runServe(cc *cli.Context) error {
	sugar := zap.S()
	cfg := settings.Current

	sto, err := stores.NewHistory(cfg)
	if err != nil {
		return err
	}

	preset, err := stores.LoadPreset()
	if err != nil {
		sugar.Infow("load preset fail", "err", err)
		preset = new(chat.Preset)
	}

	model := cfg.ChatModel
	if len(preset.Model) > 0 {
		model = preset.Model
	}
	if !provider.ValidModel(model) {
		sugar.Warnw("model not in allow-list, falling back", "model", model)
		model = provider.AllowedModels[0]
	}
	temperature := cfg.Temperature
	if preset.Temperature > 0 {
		temperature = preset.Temperature
	}
	maxTokens := cfg.MaxTokens
	if preset.MaxTokens > 0 {
		maxTokens = preset.MaxTokens
	}

	completer, err := provider.NewGroq(cfg.GroqAPIKey, cfg.GroqBaseURL)
	if err != nil {
		sugar.Warnw("chat disabled", "err", err)
		completer = nil
	}

	sm := session.NewManager(cc.Context, session.Config{
		Store:        sto,
		Provider:     completer,
		UserID:       cfg.UserID,
		Model:        model,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		Stop:         preset.Stop,
		SystemPrompt: preset.SystemPrompt,
		HistoryLimit: cfg.HistoryLimit,
	})

	fsys := fs.FS(static)
	html, _ := fs.Sub(fsys, "htdocs")
	srv := web.New(web.Config{
		Addr:       cfg.HTTPListen,
		Debug:      settings.InDevelop(),
		Session:    sm,
		Preset:     preset,
		Models:     provider.AllowedModels,
		DocHandler: http.FileServer(http.FS(html)),
	})

	idleClosed := make(chan struct{})
	ctx := context.Background()
	go func() {
		quit := make(chan os.Signal, 2)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		sugar.Info("shuting down server...")
		if err := srv.Stop(ctx); err != nil {
			sugar.Infow("server shutdown:", "err", err)
		}
		close(idleClosed)
	}()

	if err := srv.Serve(ctx); err != nil {
		sugar.Infow("serve fali", "err", err)
	}

	<-idleClosed
	return nil
}

func runClear(cc *cli.Context) error {
	sto, err := stores.NewHistory(settings.Current)
	if err != nil {
		return err
	}
	user := cc.String("user")
	if err = sto.Clear(cc.Context, user); err != nil {
		return err
	}
	zap.S().Infow("history cleared", "user", user)
	return nil
}
