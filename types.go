package shui

import (
	"errors"
	"fmt"
	"time"
)

// ─── Protokol Sabitleri ─────────────────────────────────────────────────────────

const (
	// DefaultCommandPort, SHUI firmware'inin komut protokolünü dinlediği
	// TCP port numarasıdır.
	DefaultCommandPort = 8080

	// DefaultUploadPath, MKS WiFi dosya yükleme endpoint'inin HTTP yoludur.
	// Yükleme HTTP portu (80) üzerinden yapılır, komut portundan bağımsızdır.
	DefaultUploadPath = "/upload"

	// DefaultCommandTimeout, tek bir komutun yanıtı için varsayılan zaman
	// aşımı süresidir.
	DefaultCommandTimeout = 3 * time.Second

	// DefaultBannerTimeout, bağlantı kurulduktan hemen sonra gelen karşılama
	// banner'ı için bekleme süresidir. Banner her firmware varyantında
	// gelmeyebilir; süre dolunca sessizce devam edilir.
	DefaultBannerTimeout = 1 * time.Second

	// DefaultGateWait, seri hat kilidini (Gate) almak için varsayılan
	// maksimum bekleme süresidir.
	DefaultGateWait = 5 * time.Second

	// DefaultStatusTimeout, durum oturumu (M105 + M27) için varsayılan
	// bağlantı ve okuma zaman aşımıdır.
	DefaultStatusTimeout = 10 * time.Second

	// DefaultStatusRetries, durum oturumunun taşıma hatalarında toplam
	// deneme sayısıdır. Denemeler arasında bekleme yoktur.
	DefaultStatusRetries = 2

	// DefaultConnectTimeout, HTTP yükleme bağlantısının kurulma zaman
	// aşımıdır. Okuma zaman aşımı dosya boyutuyla ölçeklenir, bkz. Upload.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultPollInterval, Monitor'ün durum sorgulama aralığıdır.
	DefaultPollInterval = 15 * time.Second

	// DefaultHistoryLimit, gönderim geçmişinde tutulan en fazla kayıt
	// sayısıdır. Eski kayıtlar sessizce düşer.
	DefaultHistoryLimit = 200

	// recvChunkSize, yanıt okuma döngüsünde tek seferde okunan byte sayısıdır.
	recvChunkSize = 256

	// bannerChunkSize, banner boşaltmada okunan maksimum byte sayısıdır.
	bannerChunkSize = 512

	// wireTerminator, komut satırlarının hat sonlandırıcısıdır.
	wireTerminator = "\r\n"
)

// ─── Komutlar ───────────────────────────────────────────────────────────────────

// Command, firmware'e gönderilen tek satırlık bir Marlin komutudur.
// Satır sonlandırıcı içermez; CRLF gönderim sırasında eklenir.
type Command string

const (
	// CmdTemperature, nozzle ve tabla sıcaklıklarını sorgular (M105).
	CmdTemperature Command = "M105"

	// CmdProgress, SD baskı ilerlemesini ve durumunu sorgular (M27).
	// SHUI, M997 uygulamadığı için yaşam döngüsü bu yanıttan türetilir.
	CmdProgress Command = "M27"

	// CmdPause, aktif SD baskısını duraklatır (M25).
	CmdPause Command = "M25"

	// CmdResume, duraklatılmış SD baskısını sürdürür (M24).
	CmdResume Command = "M24"

	// CmdCancel, aktif SD baskısını iptal eder (M26).
	CmdCancel Command = "M26"
)

// ─── Yaşam Döngüsü ──────────────────────────────────────────────────────────────

// Lifecycle, M27 yanıtından türetilen baskı durumudur.
// Hiçbir zaman bağımsız olarak saklanmaz; her zaman onu üreten yanıtla
// birlikte oluşturulur.
type Lifecycle int

const (
	// LifecycleUnknown, yanıtın bilinen hiçbir kalıpla eşleşmediği durumdur.
	LifecycleUnknown Lifecycle = iota

	// LifecycleIdle, baskı yapılmadığını gösterir ("Not SD printing").
	LifecycleIdle

	// LifecyclePrinting, aktif baskıyı gösterir ("SD printing byte X/Y").
	LifecyclePrinting

	// LifecyclePaused, duraklatılmış baskıyı gösterir ("paused").
	LifecyclePaused
)

// String, Lifecycle'ın okunabilir adını döner.
func (l Lifecycle) String() string {
	switch l {
	case LifecyclePrinting:
		return "PRINTING"
	case LifecyclePaused:
		return "PAUSED"
	case LifecycleIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText, Lifecycle'ı JSON/metin olarak durum adıyla serileştirir.
func (l Lifecycle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ─── Veri Yapıları ──────────────────────────────────────────────────────────────

// Temperature, bir ısıtıcının anlık ve hedef sıcaklığını tutar (°C).
type Temperature struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// Progress, SD baskı ilerlemesini byte cinsinden tutar.
// Done <= Total her zaman geçerlidir.
type Progress struct {
	Done  int64 `json:"done"`
	Total int64 `json:"total"`
}

// Percent, ilerlemeyi 0-100 aralığında yüzde olarak döner.
// Total sıfırsa 0 döner.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// PrinterStatus, tek bir durum oturumunun sonucudur.
// Her çağrıda yeniden oluşturulur; çağıran dışında sahibi yoktur.
type PrinterStatus struct {
	Hotend Temperature `json:"hotend"`
	Bed    Temperature `json:"bed"`

	// Progress, yalnızca firmware byte sayacı raporladığında doludur.
	// Boşta bekleyen yazıcıda nil olması hata değildir.
	Progress *Progress `json:"progress,omitempty"`

	State Lifecycle `json:"state"`
}

// TransferResult, bir dosya yükleme girişiminin sonucudur.
type TransferResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// SpeedKBs, ölçülen gerçek aktarım hızıdır (KB/s). ETA gösterimi için
	// kullanılmaz; ETA, Settings'teki temel hız değerinden hesaplanır.
	SpeedKBs float64 `json:"speed_kbs"`
}

// StatusUpdate, Monitor'ün her sorgulama sonunda gözlemcilere yayınladığı
// pakettir.
type StatusUpdate struct {
	Online bool           `json:"online"`
	Status *PrinterStatus `json:"status,omitempty"`
	State  Lifecycle      `json:"state"`

	// Err, başarısız sorgunun nedenini taşır (ErrGateBusy / ErrOffline).
	// Online=true iken her zaman nil'dir.
	Err error `json:"-"`
}

// ─── Hata Değerleri ─────────────────────────────────────────────────────────────

var (
	// ErrGateBusy, seri hat kilidinin süresi içinde alınamadığını gösterir.
	// Yazıcı erişilebilir olabilir; hat başka bir komut tarafından meşguldür.
	// Çevrimdışı durumuyla karıştırılmamalıdır.
	ErrGateBusy = errors.New("shui: hat meşgul, başka bir komut yolda")

	// ErrNoReply, komutun gönderildiğini ama süresi içinde yanıt
	// gelmediğini gösterir. Durum açısından çevrimdışına eşdeğerdir.
	ErrNoReply = errors.New("shui: yanıt yok")

	// ErrOffline, durum oturumunun tüm denemelerinin tükendiğini veya
	// yanıtın çözümlenemediğini gösterir.
	ErrOffline = errors.New("shui: yazıcı erişilemiyor")
)

// ─── Seçenek Yapıları ───────────────────────────────────────────────────────────

// Option, Printer yapılandırma seçeneklerini tanımlar.
// Functional Options pattern kullanılır.
type Option func(*printerOptions)

type printerOptions struct {
	commandTimeout time.Duration
	bannerTimeout  time.Duration
	gateWait       time.Duration
	statusTimeout  time.Duration
	statusRetries  int
	connectTimeout time.Duration
	uploadPath     string
	gate           *Gate
	logger         Logger
}

func defaultPrinterOptions() printerOptions {
	return printerOptions{
		commandTimeout: DefaultCommandTimeout,
		bannerTimeout:  DefaultBannerTimeout,
		gateWait:       DefaultGateWait,
		statusTimeout:  DefaultStatusTimeout,
		statusRetries:  DefaultStatusRetries,
		connectTimeout: DefaultConnectTimeout,
		uploadPath:     DefaultUploadPath,
		gate:           nil,
		logger:         nil,
	}
}

// WithCommandTimeout, tek komut yanıtı için zaman aşımını ayarlar.
//
//	printer := shui.NewPrinter("192.168.1.213", shui.DefaultCommandPort,
//	    shui.WithCommandTimeout(5 * time.Second),
//	)
func WithCommandTimeout(d time.Duration) Option {
	return func(o *printerOptions) {
		o.commandTimeout = d
	}
}

// WithBannerTimeout, karşılama banner'ı için bekleme süresini ayarlar.
func WithBannerTimeout(d time.Duration) Option {
	return func(o *printerOptions) {
		o.bannerTimeout = d
	}
}

// WithGateWait, hat kilidini almak için maksimum bekleme süresini ayarlar.
// Süre dolduğunda işlem ErrGateBusy ile sonuçlanır.
func WithGateWait(d time.Duration) Option {
	return func(o *printerOptions) {
		o.gateWait = d
	}
}

// WithStatusTimeout, durum oturumu bağlantı/okuma zaman aşımını ayarlar.
func WithStatusTimeout(d time.Duration) Option {
	return func(o *printerOptions) {
		o.statusTimeout = d
	}
}

// WithStatusRetries, durum oturumunun toplam deneme sayısını ayarlar.
// En az 1 olmalıdır.
func WithStatusRetries(n int) Option {
	return func(o *printerOptions) {
		if n > 0 {
			o.statusRetries = n
		}
	}
}

// WithConnectTimeout, HTTP yükleme bağlantısının kurulma zaman aşımını ayarlar.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *printerOptions) {
		o.connectTimeout = d
	}
}

// WithUploadPath, dosya yükleme endpoint'inin HTTP yolunu ayarlar.
func WithUploadPath(path string) Option {
	return func(o *printerOptions) {
		o.uploadPath = path
	}
}

// WithGate, harici bir seri hat kilidi ayarlar. Aynı cihaza birden fazla
// Printer değeri üzerinden erişen çağıranlar tek bir Gate paylaşmalıdır.
// Verilmezse her Printer kendi Gate'ini oluşturur.
func WithGate(g *Gate) Option {
	return func(o *printerOptions) {
		o.gate = g
	}
}

// WithLogger, özel bir loglama arayüzü ayarlar.
// Varsayılan olarak loglama devre dışıdır.
func WithLogger(l Logger) Option {
	return func(o *printerOptions) {
		o.logger = l
	}
}

// ─── Logger Arayüzü ─────────────────────────────────────────────────────────────

// Logger, kütüphanenin loglama arayüzüdür.
// stdlib log paketi veya zerolog/zap gibi kütüphanelerle uyumludur.
type Logger interface {
	// Printf, formatlanmış bir log mesajı yazar.
	Printf(format string, v ...interface{})
}

// ─── Doğrulama ──────────────────────────────────────────────────────────────────

// Validate, PrinterStatus değişmezlerini kontrol eder: sıcaklıklar negatif
// olamaz ve ilerleme varsa Done <= Total olmalıdır.
func (s *PrinterStatus) Validate() error {
	if s.Hotend.Current < 0 || s.Hotend.Target < 0 || s.Bed.Current < 0 || s.Bed.Target < 0 {
		return fmt.Errorf("shui: negatif sıcaklık: hotend=%v bed=%v", s.Hotend, s.Bed)
	}
	if s.Progress != nil && s.Progress.Done > s.Progress.Total {
		return fmt.Errorf("shui: ilerleme taşması: %d/%d", s.Progress.Done, s.Progress.Total)
	}
	return nil
}
