package shui

import (
	"time"
)

// ─── Seri Hat Kilidi ────────────────────────────────────────────────────────────
//
// SHUI firmware'i aynı anda tek bir istemci bağlantısı kabul eder. İkinci
// bir bağlantı, ilki kapanana kadar zaman aşımına uğrar. Gate, tüm hat
// erişimini (tek komutlar ve paket durum oturumları) serileştirerek bu
// kısıtı yazılım tarafında görünür kılar.
//
// Gate süreç genelinde gizli bir singleton değildir; açık bir değer olarak
// oluşturulur ve Printer'a verilir. Aynı cihaza birden fazla Printer
// üzerinden erişiliyorsa WithGate ile tek bir Gate paylaşılmalıdır.

// Gate, sınırlı beklemeli, yeniden girişsiz bir karşılıklı dışlama
// kilididir. Tek sahiplidir; bekleyenler arasında FIFO adaleti garanti
// edilmez. Süresi dolan bekleyen sonsuza dek kuyrukta kalmak yerine
// "meşgul" sonucu alır.
type Gate struct {
	ch chan struct{}
}

// NewGate, serbest durumda yeni bir Gate oluşturur.
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{}, 1)}
}

// Acquire, kilidi almak için en fazla maxWait süresi bekler.
// Kilit alınırsa true döner; süre dolarsa false döner ve çağıran sonucu
// "meşgul" olarak değerlendirmelidir ("çevrimdışı" değil).
func (g *Gate) Acquire(maxWait time.Duration) bool {
	select {
	case g.ch <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	select {
	case g.ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// TryAcquire, beklemeden kilidi almayı dener.
// Terminal'in "meşgul mü, yanıtsız mı" ayrımı için kullanılır.
func (g *Gate) TryAcquire() bool {
	select {
	case g.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release, kilidi serbest bırakır. Her çıkış yolunda (başarı, zaman aşımı,
// hata) çağrılmalıdır. Serbest bir Gate üzerinde çağrılması etkisizdir.
func (g *Gate) Release() {
	select {
	case <-g.ch:
	default:
	}
}

// Held, kilidin şu anda tutulup tutulmadığını döner. Yalnızca tanılama
// amaçlıdır; dönen değer okunduğu anda bayatlamış olabilir.
func (g *Gate) Held() bool {
	return len(g.ch) > 0
}
