package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config, ghostprintd servisinin yapılandırmasıdır.
// Önce ortam değişkenleri (GHOSTPRINT_ öneki), sonra komut satırı
// bayrakları uygulanır; bayraklar ortam değişkenlerini ezer.
type Config struct {
	ListenAddr   string        `envconfig:"LISTEN_ADDR" default:":8090"`   // REST/WS sunucu adresi
	PrinterIP    string        `envconfig:"PRINTER_IP"`                    // boşsa settings dosyasındaki değer kullanılır
	SettingsFile string        `envconfig:"SETTINGS_FILE" default:"settings.json"`
	HistoryFile  string        `envconfig:"HISTORY_FILE" default:"history.json"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"15s"`
	Debug        bool          `envconfig:"DEBUG" default:"false"`
}

// LoadConfig, yapılandırmayı ortam değişkenlerinden ve bayraklardan yükler.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("GHOSTPRINT", &cfg); err != nil {
		return nil, fmt.Errorf("ortam değişkenleri işlenemedi: %w", err)
	}

	listenAddr := flag.String("listen", cfg.ListenAddr, "REST/WS sunucu adresi (GHOSTPRINT_LISTEN_ADDR'ı ezer)")
	printerIP := flag.String("printer", cfg.PrinterIP, "yazıcı adresi (GHOSTPRINT_PRINTER_IP'yi ezer)")
	settingsFile := flag.String("settings", cfg.SettingsFile, "ayar dosyası yolu")
	historyFile := flag.String("history", cfg.HistoryFile, "geçmiş dosyası yolu")
	pollInterval := flag.Duration("poll-interval", cfg.PollInterval, "durum sorgulama aralığı")
	debug := flag.Bool("debug", cfg.Debug, "ayrıntılı loglama")

	flag.Parse()

	cfg.ListenAddr = *listenAddr
	cfg.PrinterIP = *printerIP
	cfg.SettingsFile = *settingsFile
	cfg.HistoryFile = *historyFile
	cfg.PollInterval = *pollInterval
	cfg.Debug = *debug

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("sunucu adresi boş olamaz (--listen veya GHOSTPRINT_LISTEN_ADDR)")
	}
	if cfg.PollInterval < time.Second {
		return nil, fmt.Errorf("sorgulama aralığı en az 1s olmalı: %s", cfg.PollInterval)
	}

	return &cfg, nil
}
