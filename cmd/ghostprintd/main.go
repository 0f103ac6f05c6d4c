// ghostprintd, bir SHUI yazıcısını yerel bir REST + WebSocket yüzeyi
// arkasında sunan servis süreçtir. Protokol çekirdeği shui paketindedir;
// bu süreç yalnızca yapılandırma, loglama ve HTTP yüzeyini bağlar.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	shui "github.com/gamerus9/GhostPrint"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ghostprintd: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	// Ayarlar değişmez bir değer olarak yüklenir; ortam/bayrak geçersiz
	// kılmaları yeni bir değer üretir, yerinde değişiklik yapılmaz.
	settings := shui.LoadSettings(cfg.SettingsFile)
	if cfg.PrinterIP != "" {
		settings.PrinterIP = cfg.PrinterIP
	}

	printer := shui.NewPrinter(settings.PrinterIP, shui.DefaultCommandPort,
		shui.WithLogger(&logger),
	)
	history := shui.NewHistory(cfg.HistoryFile)

	hub := newHub(logger)
	srv := newServer(printer, history, settings, hub, logger)

	monitor := shui.NewMonitor(printer, cfg.PollInterval, func(u shui.StatusUpdate) {
		srv.setLatest(u)
		hub.broadcast(u)
		if u.Online {
			logger.Debug().Stringer("state", u.State).Msg("durum güncellendi")
		} else {
			logger.Debug().Err(u.Err).Msg("yazıcı yanıt vermedi")
		}
	})
	monitor.Start()
	defer monitor.Stop()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP sunucusu başlatılamadı")
		}
	}()

	logger.Info().
		Str("listen", cfg.ListenAddr).
		Str("printer", settings.PrinterIP).
		Dur("poll_interval", cfg.PollInterval).
		Msg("ghostprintd başlatıldı")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("kapatılıyor")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP sunucusu temiz kapatılamadı")
	}
}
