package shui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h := NewHistory(path)

	entry, err := h.Append("benchy.gcode", 120, true)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if entry.ID == "" {
		t.Error("entry must carry a generated ID")
	}
	if entry.Timestamp.IsZero() {
		t.Error("entry must carry a timestamp")
	}

	if _, err := h.Append("tower.gcode", 0, false); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].File != "benchy.gcode" || entries[0].CoolingSeconds != 120 || !entries[0].Success {
		t.Errorf("first entry mismatch: %+v", entries[0])
	}
	if entries[1].File != "tower.gcode" || entries[1].Success {
		t.Errorf("second entry mismatch: %+v", entries[1])
	}
	if entries[0].ID == entries[1].ID {
		t.Error("entry IDs must be unique")
	}

	// Dosya üzerinden yeni bir günlük aynı kayıtları görmeli.
	if got := NewHistory(path).Entries(); len(got) != 2 {
		t.Errorf("reloaded history has %d entries, expected 2", len(got))
	}
}

func TestHistoryCap(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.json"))
	h.limit = 3

	for i := 0; i < 5; i++ {
		if _, err := h.Append("file.gcode", i, true); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after cap, got %d", len(entries))
	}
	// En yeniler kalmalı.
	if entries[0].CoolingSeconds != 2 || entries[2].CoolingSeconds != 4 {
		t.Errorf("oldest entries must drop first: %+v", entries)
	}
}

func TestHistoryMissingAndCorruptFile(t *testing.T) {
	dir := t.TempDir()

	if got := NewHistory(filepath.Join(dir, "missing.json")).Entries(); got != nil {
		t.Errorf("missing file must yield nil, got %v", got)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewHistory(corrupt).Entries(); got != nil {
		t.Errorf("corrupt file must yield nil, got %v", got)
	}

	// Bozuk dosya üzerine ekleme dosyayı onarır.
	h := NewHistory(corrupt)
	if _, err := h.Append("fresh.gcode", 0, true); err != nil {
		t.Fatalf("Append over corrupt file failed: %v", err)
	}
	if got := h.Entries(); len(got) != 1 {
		t.Errorf("expected 1 entry after repair, got %d", len(got))
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.json"))

	if _, err := h.Append("benchy.gcode", 0, true); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := h.Entries(); len(got) != 0 {
		t.Errorf("expected empty history after Clear, got %v", got)
	}
}
