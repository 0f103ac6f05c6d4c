package shui

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ─── G-code Dönüşümleri ─────────────────────────────────────────────────────────
//
// Bu dosya, yükleme öncesi uygulanan saf metin dönüşümlerini ve dilimleyici
// metadata'sını okuyan yardımcıları içerir. Hiçbiri cihazla iletişim kurmaz
// ve hiçbiri girdiyi yerinde değiştirmez; her zaman yeni bir belge üretilir.

// coolingBlockTemplate, motor kapatma öncesi çalıştırılan soğutma rutinidir:
// fan tam güce, coolingSeconds kadar bekle, fan kapat.
const coolingBlockTemplate = `; --- Cooling ---
M106 S255
G4 S%d
M106 S0
; ---
`

var (
	// disableMotorsPattern, kırpılmış satır içeriğinde motor kapatma
	// direktifini (M84) eşler.
	disableMotorsPattern = regexp.MustCompile(`^M84\b`)

	estimatedTimePattern = regexp.MustCompile(`; estimated printing time \(normal mode\) = (.+)`)
	timeSecondsPattern   = regexp.MustCompile(`;TIME:(\d+)`)
	buildTimePattern     = regexp.MustCompile(`; Build time: (.+)`)

	thumbnailBeginPattern = regexp.MustCompile(`^; thumbnail begin (\d+)x(\d+)`)
)

// InjectCooling, her M84 satırının hemen öncesine soğutma bloğu ekler.
//
// coolingSeconds == 0 ise girdi, satır sonları dahil byte'ı byte'ına
// değişmeden döner. Belgede hiç M84 yoksa, çıktının sonuna bir soğutma
// bloğu ve sentezlenmiş bir M84 satırı eklenir.
//
// Dönüşüm her M84 geçişi için ayrı blok üretir; global olarak idempotent
// DEĞİLDİR: zaten işlenmiş çıktı üzerinde yeniden çalıştırmak ek bloklar
// ekler. Çağıran, dönüşümü boru hattı başına en fazla bir kez uygulamakla
// yükümlüdür.
func InjectCooling(text string, coolingSeconds int) string {
	if coolingSeconds == 0 {
		return text
	}

	block := fmt.Sprintf(coolingBlockTemplate, coolingSeconds)

	var b strings.Builder
	b.Grow(len(text) + len(block))

	found := false
	for _, line := range splitKeepEnds(text) {
		if disableMotorsPattern.MatchString(strings.TrimSpace(line)) {
			b.WriteString(block)
			found = true
		}
		b.WriteString(line)
	}

	if !found {
		b.WriteString(block)
		b.WriteString("M84\n")
	}

	return b.String()
}

// splitKeepEnds, metni satır sonlandırıcıları koruyarak satırlara böler.
// Sonlandırıcısız son parça da döner.
func splitKeepEnds(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// ─── Dilimleyici Metadata'sı ────────────────────────────────────────────────────

// ParsePrintTime, G-code içindeki tahmini baskı süresini okur.
// Sırayla üç dilimleyici grameri denenir: PrusaSlicer/OrcaSlicer
// ("estimated printing time"), Cura (";TIME:<saniye>") ve Simplify3D
// ("Build time"). Hiçbiri bulunamazsa boş string döner.
func ParsePrintTime(text string) string {
	if m := estimatedTimePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := timeSecondsPattern.FindStringSubmatch(text); m != nil {
		secs, err := strconv.Atoi(m[1])
		if err == nil {
			return formatDuration(secs)
		}
	}
	if m := buildTimePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// formatDuration, saniyeyi "1h 2m 3s" biçiminde yazar; sıfır parçalar atlanır.
func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// ─── Gömülü Küçük Resim ─────────────────────────────────────────────────────────

// Thumbnail, G-code'a gömülü bir PNG küçük resmidir.
// Data ham PNG byte'larıdır; çözme/çizim dış katmanların işidir.
type Thumbnail struct {
	Width  int
	Height int
	Data   []byte
}

// ExtractThumbnail, OrcaSlicer/BambuStudio'nun G-code yorumlarına gömdüğü
// base64 PNG küçük resimlerinden piksel sayısı en büyük olanı çıkarır.
// Belge küçük resim içermiyorsa veya hiçbiri çözülemiyorsa ok=false döner.
func ExtractThumbnail(text string) (*Thumbnail, bool) {
	var best *Thumbnail
	bestPixels := 0

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		m := thumbnailBeginPattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}

		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])

		var b64 strings.Builder
		for i++; i < len(lines); i++ {
			ln := lines[i]
			if strings.HasPrefix(ln, "; thumbnail end") {
				break
			}
			if strings.HasPrefix(ln, "; ") {
				b64.WriteString(strings.TrimRight(ln[2:], "\r"))
			} else if strings.HasPrefix(ln, ";") {
				b64.WriteString(strings.TrimRight(ln[1:], "\r"))
			}
		}

		if w*h <= bestPixels {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(b64.String())
		if err != nil {
			continue
		}

		best = &Thumbnail{Width: w, Height: h, Data: data}
		bestPixels = w * h
	}

	return best, best != nil
}
