package shui

import (
	"fmt"
	"net"
	"strconv"
)

// Printer, tek bir SHUI yazıcısına erişimi yöneten ana yapıdır.
// Thread-safe olarak tasarlanmıştır: tüm hat erişimi gate üzerinden
// serileştirilir.
//
// Kalıcı bir bağlantı tutulmaz; her komut ve her durum oturumu kendi TCP
// bağlantısını açar ve her çıkış yolunda kapatır. Firmware'in tek istemci
// kısıtı nedeniyle bu, kopuk bağlantı takibinden daha güvenilirdir.
//
// Kullanım:
//
//	printer := shui.NewPrinter("192.168.1.213", shui.DefaultCommandPort)
//	status, err := printer.QueryStatus()
type Printer struct {
	// host, yazıcının IP adresi veya ana makine adıdır.
	host string

	// port, komut protokolünün TCP port numarasıdır.
	port int

	// gate, hat erişimini serileştiren kilittir.
	gate *Gate

	// opts, yazıcı yapılandırma seçenekleridir.
	opts printerOptions
}

// NewPrinter, yeni bir Printer değeri oluşturur. Bağlantı kurulmaz; her
// işlem kendi bağlantısını açar. port <= 0 ise DefaultCommandPort kullanılır.
//
//	// Basit kullanım
//	printer := shui.NewPrinter("192.168.1.213", shui.DefaultCommandPort)
//
//	// Seçeneklerle
//	printer := shui.NewPrinter("192.168.1.213", shui.DefaultCommandPort,
//	    shui.WithCommandTimeout(5*time.Second),
//	    shui.WithLogger(log.Default()),
//	)
func NewPrinter(host string, port int, options ...Option) *Printer {
	opts := defaultPrinterOptions()
	for _, opt := range options {
		opt(&opts)
	}

	if port <= 0 {
		port = DefaultCommandPort
	}

	gate := opts.gate
	if gate == nil {
		gate = NewGate()
	}

	return &Printer{
		host: host,
		port: port,
		gate: gate,
		opts: opts,
	}
}

// Host, yazıcının adresini döner.
func (p *Printer) Host() string {
	return p.host
}

// Port, komut protokolü port numarasını döner.
func (p *Printer) Port() int {
	return p.port
}

// Gate, yazıcının seri hat kilidini döner.
func (p *Printer) Gate() *Gate {
	return p.gate
}

// commandAddr, komut protokolünün "host:port" adresini döner.
func (p *Printer) commandAddr() string {
	return net.JoinHostPort(p.host, strconv.Itoa(p.port))
}

// UploadURL, MKS WiFi yükleme endpoint'inin tam URL'sini döner.
// Yükleme standart HTTP portu üzerinden yapılır.
func (p *Printer) UploadURL() string {
	return fmt.Sprintf("http://%s%s", p.host, p.opts.uploadPath)
}

// logf, yapılandırılmış logger varsa mesaj yazar.
func (p *Printer) logf(format string, v ...interface{}) {
	if p.opts.logger != nil {
		p.opts.logger.Printf("[shui] "+format, v...)
	}
}
