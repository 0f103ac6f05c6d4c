package shui

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeFirmware, testler için döngüsel arayüzde dinleyen sahte bir SHUI
// yazıcısıdır. Her bağlantıda önce banner yazar, sonra satır satır komut
// okuyup handler'ın yanıtını döner. Yanıtlar fragment=true ise iki TCP
// yazımına bölünür.
type fakeFirmware struct {
	ln       net.Listener
	banner   string
	handler  func(cmd string) string
	fragment bool

	// closeFirst, ilk bağlantıyı yanıt vermeden kapatır (yeniden deneme testleri).
	closeFirst bool

	mu       sync.Mutex
	received []string
	conns    int
}

func startFakeFirmware(t *testing.T, handler func(cmd string) string) *fakeFirmware {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	f := &fakeFirmware{
		ln:      ln,
		banner:  "SHUI: 2025-07-13 build\r\n",
		handler: handler,
	}
	t.Cleanup(func() { ln.Close() })

	go f.serve()
	return f
}

func (f *fakeFirmware) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}

		f.mu.Lock()
		f.conns++
		dropNow := f.closeFirst && f.conns == 1
		f.mu.Unlock()

		if dropNow {
			conn.Close()
			continue
		}
		go f.handleConn(conn)
	}
}

func (f *fakeFirmware) handleConn(conn net.Conn) {
	defer conn.Close()

	if f.banner != "" {
		conn.Write([]byte(f.banner))
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		cmd := strings.TrimRight(scanner.Text(), "\r")

		f.mu.Lock()
		f.received = append(f.received, cmd)
		f.mu.Unlock()

		resp := f.handler(cmd)
		if resp == "" {
			continue
		}

		if f.fragment && len(resp) > 4 {
			conn.Write([]byte(resp[:4]))
			time.Sleep(30 * time.Millisecond)
			conn.Write([]byte(resp[4:]))
		} else {
			conn.Write([]byte(resp))
		}
	}
}

func (f *fakeFirmware) addr() (host string, port int) {
	h, p, _ := net.SplitHostPort(f.ln.Addr().String())
	n, _ := strconv.Atoi(p)
	return h, n
}

func (f *fakeFirmware) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.received))
	copy(out, f.received)
	return out
}

func (f *fakeFirmware) connections() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conns
}

// testPrinter, sahte yazıcıya kısa zaman aşımlarıyla bağlanan bir Printer döner.
func testPrinter(t *testing.T, f *fakeFirmware, extra ...Option) *Printer {
	t.Helper()
	host, port := f.addr()

	opts := append([]Option{
		WithBannerTimeout(100 * time.Millisecond),
		WithCommandTimeout(2 * time.Second),
		WithStatusTimeout(2 * time.Second),
		WithGateWait(200 * time.Millisecond),
	}, extra...)

	return NewPrinter(host, port, opts...)
}

// unusedAddr, kimsenin dinlemediği bir döngüsel adres döner.
func unusedAddr(t *testing.T) (host string, port int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	h, p, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()
	n, _ := strconv.Atoi(p)
	return h, n
}
