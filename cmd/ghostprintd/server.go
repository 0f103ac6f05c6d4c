package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	shui "github.com/gamerus9/GhostPrint"
)

// maxUploadBytes, tek bir G-code yüklemesinin üst sınırıdır.
const maxUploadBytes = 256 << 20

// server, REST yüzeyini ve son bilinen durumu tutar.
type server struct {
	printer  *shui.Printer
	history  *shui.History
	settings shui.Settings
	hub      *hub
	log      zerolog.Logger

	mu        sync.RWMutex
	latest    shui.StatusUpdate
	hasLatest bool
}

func newServer(printer *shui.Printer, history *shui.History, settings shui.Settings, hub *hub, log zerolog.Logger) *server {
	return &server{
		printer:  printer,
		history:  history,
		settings: settings,
		hub:      hub,
		log:      log,
	}
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handleSettings).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)
	api.HandleFunc("/print/{action}", s.handlePrintAction).Methods(http.MethodPost)
	api.HandleFunc("/command", s.handleCommand).Methods(http.MethodPost)
	api.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)

	r.HandleFunc("/ws", s.hub.handleWS)

	return r
}

// setLatest, izleyicinin yayınladığı son durumu saklar.
func (s *server) setLatest(u shui.StatusUpdate) {
	s.mu.Lock()
	s.latest = u
	s.hasLatest = true
	s.mu.Unlock()
}

// handleStatus, son bilinen durumu döner. İzleyici henüz hiç sorgu
// tamamlamadıysa canlı bir sorgu yapılır.
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	latest, ok := s.latest, s.hasLatest
	s.mu.RUnlock()

	if !ok {
		status, err := s.printer.QueryStatus()
		latest = shui.StatusUpdate{State: shui.LifecycleUnknown, Err: err}
		if err == nil && status != nil {
			latest = shui.StatusUpdate{Online: true, Status: status, State: status.State}
		}
	}

	s.writeJSON(w, http.StatusOK, latest)
}

// handleSettings, etkin yapılandırmayı döner. UploadSpeedKBs, dış ETA
// gösterimi için temel hızdır; ölçülen aktarım hızıyla karıştırılmaz.
func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.settings)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.history.Entries()
	if entries == nil {
		entries = []shui.HistoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(); err != nil {
		s.log.Error().Err(err).Msg("geçmiş temizlenemedi")
		http.Error(w, "geçmiş temizlenemedi", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePrintAction, pause/resume/cancel komutlarını yürütür.
func (s *server) handlePrintAction(w http.ResponseWriter, r *http.Request) {
	var err error
	action := mux.Vars(r)["action"]
	switch action {
	case "pause":
		err = s.printer.Pause()
	case "resume":
		err = s.printer.Resume()
	case "cancel":
		err = s.printer.Cancel()
	default:
		http.Error(w, "bilinmeyen eylem: "+action, http.StatusNotFound)
		return
	}

	switch {
	case errors.Is(err, shui.ErrGateBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, shui.ErrNoReply):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.log.Info().Str("action", action).Msg("baskı komutu yürütüldü")
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	OK       bool   `json:"ok"`
	Response string `json:"response"`
}

// handleCommand, terminal tarzı serbest komut geçişidir.
// Meşgul hat 409 döner; yanıtsız komut ok=false ile raporlanır.
func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		http.Error(w, "gövde {\"command\": \"...\"} olmalı", http.StatusBadRequest)
		return
	}

	resp, err := s.printer.SendRaw(req.Command)
	if errors.Is(err, shui.ErrGateBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	s.log.Debug().Str("command", req.Command).Bool("replied", resp != "").Msg("terminal komutu")
	s.writeJSON(w, http.StatusOK, commandResponse{OK: resp != "", Response: resp})
}

// handleUpload, G-code içeriğini soğutma bloğu enjeksiyonundan geçirip
// yazıcıya yükler ve sonucu geçmişe işler.
//
// Sorgu parametreleri: filename (zorunlu), cooling (saniye; verilmezse
// ayarlardaki varsayılan kullanılır).
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("filename")
	if name == "" {
		http.Error(w, "filename parametresi zorunlu", http.StatusBadRequest)
		return
	}

	cooling := s.settings.DefaultCoolingSeconds
	if q := r.URL.Query().Get("cooling"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			http.Error(w, "geçersiz cooling değeri: "+q, http.StatusBadRequest)
			return
		}
		cooling = v
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		http.Error(w, "gövde okunamadı: "+err.Error(), http.StatusBadRequest)
		return
	}

	processed := shui.InjectCooling(string(body), cooling)

	// İlerleme logu yüzde değişiminde bir kez yazılır.
	lastPct := -1
	result := s.printer.Upload(name, []byte(processed), func(sent, total int64) {
		pct := 0
		if total > 0 {
			pct = int(100 * sent / total)
		}
		if pct != lastPct {
			lastPct = pct
			s.log.Debug().Str("file", name).Int("pct", pct).Msg("yükleme ilerliyor")
		}
	})

	if _, err := s.history.Append(name, cooling, result.Success); err != nil {
		s.log.Error().Err(err).Msg("geçmişe yazılamadı")
	}

	code := http.StatusOK
	if !result.Success {
		code = http.StatusBadGateway
		s.log.Warn().Str("file", name).Str("message", result.Message).Msg("yükleme başarısız")
	} else {
		s.log.Info().Str("file", name).Float64("speed_kbs", result.SpeedKBs).Msg("yükleme tamamlandı")
	}
	s.writeJSON(w, code, result)
}

func (s *server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug().Err(err).Msg("yanıt yazılamadı")
	}
}
