package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/nayana/internal/app"
	"github.com/ayusman/nayana/internal/capture"
	"github.com/ayusman/nayana/internal/config"
	"github.com/ayusman/nayana/internal/logging"
	"github.com/ayusman/nayana/internal/metrics"
	"github.com/ayusman/nayana/internal/server"
	"github.com/ayusman/nayana/internal/status"
	"github.com/ayusman/nayana/internal/store"
	"github.com/ayusman/nayana/internal/tray"
	"github.com/ayusman/nayana/internal/wink"
)

func main() {
	fmt.Println("Nayana - Wink Detection")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("nayana stopped")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	log := logging.Component(logger, "main")

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	thresholds, err := st.Settings().Thresholds(cfg.Thresholds())
	if err != nil {
		log.WithError(err).Warn("ignoring stored thresholds")
	}

	rc := cfg.RuntimeContext(runtime.NumCPU())
	params := wink.NewParams(rc, thresholds)

	session, err := wink.NewSession(params)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	width, height := rc.CaptureSize()
	camera := capture.NewCamera(cfg.CameraID, width, height)

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	hub := status.NewHub()
	preview := capture.NewPreview()

	application, err := app.New(app.Config{
		Camera:  camera,
		Session: session,
		Hub:     hub,
		Preview: preview,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer application.Close()

	if cfg.WebDir != "" {
		log.WithField("dir", cfg.WebDir).Info("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir:  cfg.WebDir,
		Store:      st,
		Hub:        hub,
		Preview:    preview,
		App:        application,
		Thresholds: thresholds,
		Params:     params,
		StreamFPS:  cfg.StreamFPS,
		Logger:     logger,
	})

	log.WithFields(logrus.Fields{
		"session_id": session.ID(),
		"context":    rc.String(),
		"threshold":  params.Threshold,
		"capture":    fmt.Sprintf("%dx%d", width, height),
	}).Info("session created")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
		tr.OnToggle(application.SetEnabled)
		tr.OnSettings(func() {
			log.WithField("url", "http://localhost"+cfg.Addr).Info("open settings in a browser")
		})
		tr.OnQuit(stop)

		outputs, cancel := hub.Subscribe(status.DefaultBuffer)
		defer cancel()
		go tr.Follow(outputs)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := application.Run(gctx)
		if err != nil && tr != nil {
			tr.SetError(err.Error())
		}
		// The server keeps running so /api/health can report the failure.
		if err != nil {
			log.WithError(err).Error("detection loop failed")
		}
		return nil
	})

	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Addr)
	})

	if tr != nil {
		go func() {
			<-gctx.Done()
			tr.Quit()
		}()
		// The tray loop must own the main thread on macOS.
		tr.Run()
		stop()
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
