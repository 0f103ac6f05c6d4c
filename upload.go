package shui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ─── Dosya Yükleme ──────────────────────────────────────────────────────────────
//
// MKS WiFi (ESP8266/SHUI) yükleme protokolü tek bir akışlı POST isteğidir:
//
//	POST /upload?X-Filename=<ad>
//	Content-Type: application/octet-stream
//	Content-Length: <tam byte sayısı>
//	(ham dosya byte'ları, multipart zarfı yok)
//
// Yanıt gövdesi JSON'dur; "err" alanı 0 ise yükleme başarılıdır.
// Yükleme HTTP üzerinden gittiği için TCP hat kilidini tutmaz.

// uploadReply, firmware'in yükleme yanıt gövdesidir.
// Err pointer'dır: alanın hiç gelmemesi başarı sayılmaz.
type uploadReply struct {
	Err *int `json:"err"`
}

// Upload, içeriği yazıcıya dosya olarak yükler.
//
// onProgress nil değilse her parça taşıma katmanına verildikten sonra
// (gönderilen, toplam) byte sayılarıyla çağrılır. Çağıran isterse yüzde
// değişimine göre kısabilir; burada kısma yapılmaz.
//
// Okuma zaman aşımı içerik boyutuyla ölçeklenir: max(180s, boyut/10240+120s).
// Bağlantı kurulumu kısa ve sabittir (WithConnectTimeout). Sonuç her zaman
// doludur; hata fırlatılmaz. Başarısızlıkta Message, tanı için ham yanıtı
// veya taşıma hatasını içerir ve okuma zaman aşımı diğer taşıma
// hatalarından ayrı raporlanır.
func (p *Printer) Upload(fileName string, content []byte, onProgress func(sent, total int64)) TransferResult {
	uploadURL := p.UploadURL() + "?X-Filename=" + url.QueryEscape(fileName)

	readTimeout := uploadReadTimeout(len(content))
	client := &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: p.opts.connectTimeout}).DialContext,
		},
	}

	body := &progressReader{
		r:     bytes.NewReader(content),
		total: int64(len(content)),
		cb:    onProgress,
	}

	req, err := http.NewRequest(http.MethodPost, uploadURL, body)
	if err != nil {
		return TransferResult{Message: fmt.Sprintf("istek oluşturulamadı: %v", err)}
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Connection", "keep-alive")
	req.ContentLength = int64(len(content))

	p.logf("yükleme başlatılıyor: %s (%d bytes, okuma zaman aşımı %s)", fileName, len(content), readTimeout)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return TransferResult{Message: "yükleme zaman aşımı: yazıcı zamanında yanıt vermedi"}
		}
		return TransferResult{Message: fmt.Sprintf("yükleme hatası: %v", err)}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var reply uploadReply
	if err := json.Unmarshal(raw, &reply); err != nil || reply.Err == nil {
		return TransferResult{Message: fmt.Sprintf("yanıt çözümlenemedi: %s", raw)}
	}
	if *reply.Err != 0 {
		return TransferResult{Message: fmt.Sprintf("yazıcı hata döndü: %s", raw)}
	}

	speedKBs := float64(len(content)) / (elapsed * 1024)
	p.logf("yükleme tamamlandı: %s (%.0f KB/s)", fileName, speedKBs)

	return TransferResult{
		Success:  true,
		Message:  fmt.Sprintf("\"%s\" gönderildi (%.0f KB/s)", fileName, speedKBs),
		SpeedKBs: speedKBs,
	}
}

// uploadReadTimeout, içerik boyutuna göre okuma zaman aşımını hesaplar.
// Firmware dosyayı SD karta yazarken yanıtı geciktirir; süre boyutla
// ölçeklenir ve 180 saniyenin altına inmez.
func uploadReadTimeout(contentBytes int) time.Duration {
	secs := int64(contentBytes)/10240 + 120
	if secs < 180 {
		secs = 180
	}
	return time.Duration(secs) * time.Second
}

// isTimeout, HTTP istemci hatasının zaman aşımı olup olmadığını kontrol eder.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ─── İlerleme Okuyucusu ─────────────────────────────────────────────────────────

// progressReader, her okunan parçadan sonra callback çağıran io.Reader
// sarmalayıcısıdır. HTTP taşıyıcısı gövdeyi bu okuyucudan çektiği için
// callback, byte'lar taşıma katmanına verildikçe tetiklenir.
type progressReader struct {
	r     *bytes.Reader
	total int64
	sent  int64
	cb    func(sent, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.cb != nil {
			pr.cb(pr.sent, pr.total)
		}
	}
	return n, err
}
