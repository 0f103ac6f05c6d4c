package shui

import (
	"net"
	"time"
)

// ─── Paket Durum Oturumu ────────────────────────────────────────────────────────
//
// Durum sorgusu iki komuttan oluşur: M105 (sıcaklıklar) ve M27 (ilerleme).
// Firmware aynı anda tek bağlantı kabul ettiğinden, iki ayrı bağlantı
// açmak ikincisinin zaman aşımına uğramasına yol açıyordu. Her iki komutu
// tek bağlantıda paketlemek bu sorunu ortadan kaldırır ve sorgu başına TCP
// maliyetini yarıya indirir.

// QueryStatus, hat kilidi altında tek bir paket oturum çalıştırır ve
// yazıcının anlık durumunu döner.
//
// M105 yanıtı çözümlenemezse oturum M27 gönderilmeden başarısız olur:
// bozuk ilk yanıt senkron kaybına işaret eder ve aynı bağlantıda ikinci
// bir komut hatayı büyütür. M27 yanıtında ilerleme sayacının olmaması hata
// değildir (yazıcı boşta olabilir); yaşam döngüsü yine aynı yanıttan
// türetilir.
//
// Taşıma hatalarında oturum taze bir bağlantıyla, araya bekleme koymadan
// yeniden denenir. Denemeler tükenirse ErrOffline, kilit alınamazsa
// ErrGateBusy döner.
func (p *Printer) QueryStatus() (*PrinterStatus, error) {
	if !p.gate.Acquire(p.opts.gateWait) {
		return nil, ErrGateBusy
	}
	defer p.gate.Release()

	for attempt := 0; attempt < p.opts.statusRetries; attempt++ {
		status, retryable := p.statusSession()
		if status != nil {
			return status, nil
		}
		if !retryable {
			break
		}
	}

	return nil, ErrOffline
}

// Online, yazıcının erişilebilir olup olmadığını döner.
// Erişilebilirlik ölçütü, sıcaklık sorgusuna çözümlenebilir yanıt almaktır.
func (p *Printer) Online() bool {
	status, err := p.QueryStatus()
	return err == nil && status != nil
}

// statusSession, kilit tutulurken tek bir paket oturum dener.
// retryable=true, taze bir bağlantıyla yeniden denemenin anlamlı olduğu
// taşıma hatalarını işaretler; çözümleme hataları yeniden denenmez.
func (p *Printer) statusSession() (status *PrinterStatus, retryable bool) {
	timeout := p.opts.statusTimeout

	conn, err := net.DialTimeout("tcp", p.commandAddr(), timeout)
	if err != nil {
		p.logf("durum oturumu kurulamadı: %v", err)
		return nil, true
	}
	defer conn.Close()

	drainBanner(conn, p.opts.bannerTimeout)

	// M105 — sıcaklıklar
	conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(string(CmdTemperature) + wireTerminator)); err != nil {
		return nil, true
	}
	tempResp := recvLine(conn, timeout)
	if tempResp == "" {
		return nil, true
	}

	hotend, bed, ok := ParseTemperatures(tempResp)
	if !ok {
		// Senkron kaybı: M27 bu bağlantıya gönderilmez.
		p.logf("M105 yanıtı çözümlenemedi: %q", tempResp)
		return nil, false
	}

	// M27 — ilerleme (aynı açık bağlantı, yeniden bağlanma yok)
	conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(string(CmdProgress) + wireTerminator)); err != nil {
		return nil, true
	}
	progResp := recvLine(conn, timeout)

	status = &PrinterStatus{
		Hotend: hotend,
		Bed:    bed,
		State:  InterpretState(progResp),
	}
	if prog, ok := ParseProgress(progResp); ok {
		status.Progress = &prog
	}

	return status, false
}
