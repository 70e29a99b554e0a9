package main

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"os"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	todoapp "todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/logging"
	"todolist/pkg/client"
)

var theme *material.Theme

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger := logging.Setup(cfg.LogLevel)

	metrics := client.NewMetrics(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	c, err := client.New(cfg.APIBase,
		client.WithQuery(cfg.Query),
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRateLimit(cfg.RateLimit, 1),
		client.WithMetrics(metrics),
		client.WithLogger(logger.With().Str("component", "client").Logger()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("api client")
	}

	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Palette.Bg = color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}
	theme.Palette.Fg = color.NRGBA{R: 0x15, G: 0x15, B: 0x15, A: 0xFF}
	theme.Palette.ContrastBg = colorPrimary
	theme.Palette.ContrastFg = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var a *todoapp.App
	a = todoapp.New(c, todoapp.Options{
		Fade:            cfg.AlertFade,
		NotifyDelay:     cfg.NotifyDelay,
		RefreshInterval: cfg.RefreshInterval,
		Logger:          logger.With().Str("component", "app").Logger(),
		OnLogout:        func() { go a.Reload(ctx) },
	})
	ui := newUI(ctx, a)

	go func() {
		w := new(app.Window)
		w.Option(app.Title("To-do list"))
		w.Option(app.Size(unit.Dp(900), unit.Dp(800)))
		go ui.watch(w)
		go a.Start(ctx)
		if err := ui.run(w); err != nil {
			log.Fatal().Err(err).Msg("window")
		}
		os.Exit(0)
	}()
	app.Main()
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server")
	}
}

// watch redraws the window whenever the store or the banners change.
func (ui *UI) watch(w *app.Window) {
	stateCh := ui.app.Store.Subscribe()
	alertCh := ui.app.Alerts.Subscribe()
	defer ui.app.Store.Unsubscribe(stateCh)
	defer ui.app.Alerts.Unsubscribe(alertCh)
	for {
		select {
		case <-ui.ctx.Done():
			return
		case <-stateCh:
		case <-alertCh:
		}
		w.Invalidate()
	}
}

func (ui *UI) run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			st := ui.app.Store.Snapshot()
			ui.handleClicks(gtx, st)
			ui.layout(gtx, ui.app.Store.Snapshot())
			e.Frame(gtx.Ops)
		}
	}
}
