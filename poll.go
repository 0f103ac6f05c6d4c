package shui

import (
	"errors"
	"sync"
	"time"
)

// ─── Durum İzleyici ─────────────────────────────────────────────────────────────

// Monitor, sabit aralıkla durum oturumu çalıştıran ve her tamamlanışta
// sonucu gözlemciye yayınlayan arka plan zamanlayıcısıdır.
//
// Zamanlama, tekil sorgu sonuçlarından bağımsız olarak süresiz devam eder:
// başarısız bir sorgu, bir sonrakini başarılı bir sorguyla tamamen aynı
// şekilde zamanlar. İzleme hiçbir hatada kendi kendini durdurmaz.
type Monitor struct {
	printer  *Printer
	interval time.Duration
	onUpdate func(StatusUpdate)

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewMonitor, yeni bir Monitor oluşturur. interval <= 0 ise
// DefaultPollInterval kullanılır. onUpdate, izleyicinin kendi
// goroutine'inden çağrılır; UI gibi tek iş parçacıklı tüketiciler sonucu
// kendi kuyruklarına aktarmalıdır.
func NewMonitor(printer *Printer, interval time.Duration, onUpdate func(StatusUpdate)) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		printer:  printer,
		interval: interval,
		onUpdate: onUpdate,
	}
}

// Start, izleme döngüsünü başlatır. İlk sorgu hemen yapılır.
// Zaten çalışıyorsa etkisizdir.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
}

// Stop, izleme döngüsünü durdurur ve döngü goroutine'i çıkana kadar bekler.
// Çalışmıyorsa etkisizdir.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
}

func (m *Monitor) loop(stop, done chan struct{}) {
	defer close(done)

	m.pollOnce()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.pollOnce()
		}
	}
}

// pollOnce, tek bir durum sorgusu çalıştırır ve sonucu yayınlar.
func (m *Monitor) pollOnce() {
	status, err := m.printer.QueryStatus()

	update := StatusUpdate{State: LifecycleUnknown, Err: err}
	if err == nil && status != nil {
		update.Online = true
		update.Status = status
		update.State = status.State
		update.Err = nil
	} else if errors.Is(err, ErrGateBusy) {
		// Meşgul hat çevrimdışı demek değildir; gözlemci Err üzerinden ayırt eder.
		m.printer.logf("durum sorgusu atlandı: hat meşgul")
	}

	if m.onUpdate != nil {
		m.onUpdate(update)
	}
}
