package shui

import (
	"regexp"
	"strconv"
)

// ─── Yanıt Çözümleme ────────────────────────────────────────────────────────────
//
// Firmware yanıtları serbest metindir; durum türetimi sıralı kalıp
// kurallarıyla yapılır. Kalıplar paket düzeyinde bir kez derlenir ve
// öncelik sırası tek başına test edilebilir (bkz. InterpretState).

var (
	// tempPattern, M105 yanıtından nozzle ve tabla sıcaklıklarını çıkarır.
	// SHUI "T0:" ile yanıt verir (standart Marlin "T:" değil); "T0?" her
	// ikisini de eşler. Örnek yanıt:
	//   ok T0:44.25 /0.00 B:40.27 /0.00 T0:44.25 /0.00 ...
	tempPattern = regexp.MustCompile(`T0?:(\d+\.?\d*)\s*/(\d+\.?\d*).*B:(\d+\.?\d*)\s*/(\d+\.?\d*)`)

	// progressPattern, M27 yanıtındaki byte sayacını eşler.
	progressPattern = regexp.MustCompile(`SD printing byte (\d+)/(\d+)`)

	// pausedPattern, duraklatma belirtecini eşler ("SD print paused" vb.).
	pausedPattern = regexp.MustCompile(`(?i)paused`)

	// idlePattern, boşta ifadesini eşler ("Not SD printing").
	idlePattern = regexp.MustCompile(`(?i)not\s+(?:sd\s+)?printing`)
)

// ParseTemperatures, M105 yanıtından (hotend, tabla) sıcaklık çiftlerini
// çıkarır. Yanıttaki ek belirteçler yok sayılır. Yanıt gramerle eşleşmezse
// ok=false döner.
func ParseTemperatures(resp string) (hotend, bed Temperature, ok bool) {
	m := tempPattern.FindStringSubmatch(resp)
	if m == nil {
		return Temperature{}, Temperature{}, false
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return Temperature{}, Temperature{}, false
		}
		vals[i] = v
	}

	hotend = Temperature{Current: vals[0], Target: vals[1]}
	bed = Temperature{Current: vals[2], Target: vals[3]}
	return hotend, bed, true
}

// ParseProgress, M27 yanıtından (tamamlanan, toplam) byte sayaçlarını
// çıkarır. Yazıcı boştaysa sayaç bulunmaz; bu bir hata değildir, ok=false
// döner.
func ParseProgress(resp string) (Progress, bool) {
	m := progressPattern.FindStringSubmatch(resp)
	if m == nil {
		return Progress{}, false
	}

	done, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Progress{}, false
	}
	total, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Progress{}, false
	}

	return Progress{Done: done, Total: total}, true
}

// InterpretState, M27 yanıt metninden yaşam döngüsünü türetir.
//
// Kurallar sırayla değerlendirilir, ilk eşleşme kazanır:
//
//  1. "paused" belirteci (büyük/küçük harf duyarsız) → LifecyclePaused
//  2. "SD printing byte X/Y" sayacı → LifecyclePrinting
//  3. "not ... printing" ifadesi (büyük/küçük harf duyarsız) → LifecycleIdle
//  4. eşleşme yok → LifecycleUnknown
//
// Duraklatma kontrolü byte sayacından önce gelir: duraklatılmış bir oturum
// bayat byte sayaçları raporlayabilir ve bunlar açık duraklatma belirtecini
// gölgelememelidir.
func InterpretState(resp string) Lifecycle {
	switch {
	case pausedPattern.MatchString(resp):
		return LifecyclePaused
	case progressPattern.MatchString(resp):
		return LifecyclePrinting
	case idlePattern.MatchString(resp):
		return LifecycleIdle
	default:
		return LifecycleUnknown
	}
}
