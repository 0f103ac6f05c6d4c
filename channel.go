package shui

import (
	"bytes"
	"net"
	"strings"
	"time"
)

// ─── Komut Kanalı ───────────────────────────────────────────────────────────────
//
// Bu dosya, tek kullanımlık komut kanalını içerir: bağlantı aç, banner'ı
// boşalt, komutu CRLF ile yaz, yanıtı satır sonlandırıcı görünene veya süre
// dolana kadar biriktirerek oku, bağlantıyı kapat.
//
// SHUI firmware'i yanıtı birden fazla TCP segmentine bölebilir (örneğin
// "SHUI: 2025-07-13" önce gelir, gerisi sonra). Tek bir okuma yalnızca ilk
// segmenti yakalar ve yanıtı sessizce keserdi; bu yüzden okuma döngüsü
// biriktirme yapar.

// SendCommand, hat kilidi altında tek bir komut gönderir ve ham yanıtı döner.
//
// Taşıma hataları (zaman aşımı, bağlantı reddi, sıfırlama) çağırana hata
// olarak iletilmez; boş string "yanıt yok" anlamına gelir. Dönebilecek tek
// hata, kilidin süresi içinde alınamadığını gösteren ErrGateBusy'dir.
//
// Kanal üzerinden doğrudan gönderilen komutlar yeniden denenmez; yeniden
// deneme politikası çağıranın kararıdır.
func (p *Printer) SendCommand(cmd Command) (string, error) {
	if !p.gate.Acquire(p.opts.gateWait) {
		return "", ErrGateBusy
	}
	defer p.gate.Release()

	return p.sendOnWire(cmd, p.opts.commandTimeout), nil
}

// SendRaw, serbest biçimli bir komut satırı gönderir (terminal kullanımı).
// Satır içi sonlandırıcılar ayıklanır; CRLF gönderim sırasında eklenir.
func (p *Printer) SendRaw(line string) (string, error) {
	line = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(line, "\r", ""), "\n", ""))
	return p.SendCommand(Command(line))
}

// sendOnWire, kilit tutulurken taze bir bağlantı üzerinden tek komut
// gönderir. Kilit yönetimi çağırana aittir.
func (p *Printer) sendOnWire(cmd Command, timeout time.Duration) string {
	conn, err := net.DialTimeout("tcp", p.commandAddr(), timeout)
	if err != nil {
		p.logf("bağlantı kurulamadı (%s): %v", p.commandAddr(), err)
		return ""
	}
	defer conn.Close()

	drainBanner(conn, p.opts.bannerTimeout)

	conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(string(cmd) + wireTerminator)); err != nil {
		p.logf("komut yazılamadı (%s): %v", cmd, err)
		return ""
	}

	return recvLine(conn, timeout)
}

// drainBanner, yeni bağlantıda firmware'in gönderdiği karşılama banner'ını
// tüketir. Banner'ın varlığı garanti değildir; süre dolunca sessizce devam
// edilir.
func drainBanner(conn net.Conn, wait time.Duration) {
	conn.SetReadDeadline(time.Now().Add(wait))
	buf := make([]byte, bannerChunkSize)
	_, _ = conn.Read(buf)
}

// recvLine, bağlantıdan '\n' görünene veya timeout dolana kadar okur.
// Her okuma girişimi kalan süreyle sınırlandırılır; başarısız veya boş bir
// okuma girişimi sonlandırır. Biriken byte'lar olduğu gibi (best-effort
// metin) döner; yanıt gelmemişse boş string döner.
func recvLine(conn net.Conn, timeout time.Duration) string {
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 0, recvChunkSize)
	chunk := make([]byte, recvChunkSize)

	for {
		remain := time.Until(deadline)
		if remain <= 0 {
			break
		}
		conn.SetReadDeadline(time.Now().Add(remain))

		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if bytes.IndexByte(buf, '\n') >= 0 {
				break
			}
		}
		if err != nil {
			break
		}
	}

	return string(buf)
}
