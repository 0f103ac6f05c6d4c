package shui

import (
	"strings"
)

// ─── Baskı Kontrol Komutları ────────────────────────────────────────────────────

// Pause, aktif SD baskısını duraklatır (M25).
//
//	if err := printer.Pause(); err != nil {
//	    log.Print(err)
//	}
func (p *Printer) Pause() error {
	return p.controlCommand(CmdPause)
}

// Resume, duraklatılmış SD baskısını sürdürür (M24).
func (p *Printer) Resume() error {
	return p.controlCommand(CmdResume)
}

// Cancel, aktif SD baskısını iptal eder (M26).
// Acil durdurmadır; firmware ısıtıcıları kapatır.
func (p *Printer) Cancel() error {
	return p.controlCommand(CmdCancel)
}

// controlCommand, tek bir kontrol komutu gönderir. Boş olmayan herhangi bir
// yanıt başarı sayılır; firmware bu komutlara ayrıntılı sonuç raporlamaz.
func (p *Printer) controlCommand(cmd Command) error {
	resp, err := p.SendCommand(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(resp) == "" {
		return ErrNoReply
	}
	return nil
}

// State, M27 yanıtından yazıcının anlık yaşam döngüsünü döner.
// Kilit alınamazsa ErrGateBusy döner; diğer tüm durumlarda türetilmiş
// yaşam döngüsü döner (eşleşmeyen veya boş yanıt LifecycleUnknown olur).
func (p *Printer) State() (Lifecycle, error) {
	resp, err := p.SendCommand(CmdProgress)
	if err != nil {
		return LifecycleUnknown, err
	}
	return InterpretState(resp), nil
}
