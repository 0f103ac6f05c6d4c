package shui

import (
	"encoding/json"
	"fmt"
	"os"
)

// ─── Ayarlar ────────────────────────────────────────────────────────────────────

// Settings, uygulama yapılandırmasının değişmez değeridir.
//
// Değer semantiğiyle taşınır: yeniden yapılandırma yeni bir Settings üretir
// ve sonraki işlemler bu yeni değeri açıkça alır. Açık bir oturum
// sürerken mevcut bir değer asla yerinde değiştirilmez; yolda olan
// işlemler başladıkları yapılandırmayla biter.
type Settings struct {
	// PrinterIP, hedef yazıcının adresidir.
	PrinterIP string `json:"printer_ip"`

	// UploadSpeedKBs, ETA gösterimi için kullanılan temel yükleme hızıdır
	// (KB/s). Ölçülen gerçek aktarım hızı değildir ve onunla karıştırılmaz.
	UploadSpeedKBs int `json:"upload_speed_kbs"`

	// DefaultCoolingSeconds, gönderimlerde önerilen soğutma süresidir.
	DefaultCoolingSeconds int `json:"default_cooling"`

	// ProjectsDir, yerel G-code dosyalarının bulunduğu dizindir.
	// Dizin taraması dış katmanların işidir; çekirdek yalnızca değeri taşır.
	ProjectsDir string `json:"projects_dir"`
}

// DefaultSettings, varsayılan yapılandırmayı döner.
func DefaultSettings() Settings {
	return Settings{
		PrinterIP:             "192.168.1.213",
		UploadSpeedKBs:        80,
		DefaultCoolingSeconds: 0,
		ProjectsDir:           "projects",
	}
}

// LoadSettings, ayar dosyasını varsayılanların üzerine bindirerek yükler.
// Dosya yoksa veya okunamıyorsa varsayılanlar döner; ayar dosyası
// eksikliği bir hata değildir.
func LoadSettings(path string) Settings {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings()
	}
	return s
}

// Save, ayarları dosyaya yazar. Alıcı değiştirilmez; çağıran kaydettiği
// değeri sonraki işlemlere kendisi taşır.
func (s Settings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("ayarlar serileştirilemedi: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ayarlar yazılamadı: %w", err)
	}
	return nil
}
