package shui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ─── Gönderim Geçmişi ───────────────────────────────────────────────────────────

// HistoryEntry, tek bir dosya gönderiminin kaydıdır.
type HistoryEntry struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"ts"`
	File           string    `json:"file"`
	CoolingSeconds int       `json:"cooling"`
	Success        bool      `json:"success"`
}

// History, gönderim kayıtlarını JSON dosyasında tutan, sadece-ekleme,
// sınırlı boyutlu bir günlüktür. En yeni limit kayıt saklanır; eskiler
// sessizce düşer. Eşzamanlı erişime karşı güvenlidir.
type History struct {
	path  string
	limit int
	mu    sync.Mutex
}

// NewHistory, belirtilen dosya yolunda yeni bir geçmiş günlüğü oluşturur.
// Dosyanın var olması gerekmez; ilk Append oluşturur.
func NewHistory(path string) *History {
	return &History{
		path:  path,
		limit: DefaultHistoryLimit,
	}
}

// Append, yeni bir gönderim kaydı ekler ve oluşturulan kaydı döner.
func (h *History) Append(file string, coolingSeconds int, success bool) (HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{
		ID:             uuid.New().String(),
		Timestamp:      time.Now(),
		File:           file,
		CoolingSeconds: coolingSeconds,
		Success:        success,
	}

	entries := h.readLocked()
	entries = append(entries, entry)
	if len(entries) > h.limit {
		entries = entries[len(entries)-h.limit:]
	}

	if err := h.writeLocked(entries); err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

// Entries, tüm kayıtları eskiden yeniye sıralı döner.
// Dosya yoksa veya bozuksa boş liste döner; geçmiş tanılama verisidir,
// okunamaması bir işlemi durdurmaz.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.readLocked()
}

// Clear, tüm kayıtları siler.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writeLocked([]HistoryEntry{})
}

func (h *History) readLocked() []HistoryEntry {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

func (h *History) writeLocked(entries []HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("geçmiş serileştirilemedi: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("geçmiş yazılamadı: %w", err)
	}
	return nil
}
