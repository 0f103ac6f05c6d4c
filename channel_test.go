package shui

import (
	"strings"
	"testing"
	"time"
)

func TestSendCommandRoundTrip(t *testing.T) {
	f := startFakeFirmware(t, func(cmd string) string {
		if cmd == "M105" {
			return "ok T0:44.25 /0.00 B:40.27 /0.00 T0:44.25 /0.00\r\n"
		}
		return "ok\r\n"
	})
	p := testPrinter(t, f)

	resp, err := p.SendCommand(CmdTemperature)
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if !strings.Contains(resp, "T0:44.25") {
		t.Errorf("unexpected response: %q", resp)
	}

	// Banner yanıta sızmamalı.
	if strings.Contains(resp, "SHUI:") {
		t.Errorf("banner leaked into response: %q", resp)
	}

	got := f.commands()
	if len(got) != 1 || got[0] != "M105" {
		t.Errorf("expected [M105] on the wire, got %v", got)
	}
}

func TestSendCommandFragmentedReply(t *testing.T) {
	f := startFakeFirmware(t, func(cmd string) string {
		return "ok T0:44.25 /0.00 B:40.27 /0.00 T0:44.25 /0.00\r\n"
	})
	f.fragment = true
	p := testPrinter(t, f)

	resp, err := p.SendCommand(CmdTemperature)
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}

	// Parçalı yanıt tek satır olarak birikmeli; ilk segmentte kesilmemeli.
	if !strings.Contains(resp, "B:40.27") {
		t.Errorf("fragmented response was truncated: %q", resp)
	}
}

func TestSendCommandPrinterUnreachable(t *testing.T) {
	host, port := unusedAddr(t)
	p := NewPrinter(host, port,
		WithCommandTimeout(500*time.Millisecond),
		WithBannerTimeout(50*time.Millisecond),
	)

	start := time.Now()
	resp, err := p.SendCommand(CmdTemperature)
	if err != nil {
		t.Fatalf("transport failure must not surface as error, got: %v", err)
	}
	if resp != "" {
		t.Errorf("expected empty response, got %q", resp)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("unreachable printer took too long: %s", elapsed)
	}
}

func TestSendCommandNoReplyTimesOut(t *testing.T) {
	f := startFakeFirmware(t, func(cmd string) string {
		return "" // firmware susar
	})
	p := testPrinter(t, f, WithCommandTimeout(300*time.Millisecond))

	start := time.Now()
	resp, err := p.SendCommand(CmdProgress)
	if err != nil {
		t.Fatalf("timeout must not surface as error, got: %v", err)
	}
	if resp != "" {
		t.Errorf("expected empty response on silence, got %q", resp)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("silent firmware took too long: %s", elapsed)
	}
}

func TestSendCommandGateBusy(t *testing.T) {
	f := startFakeFirmware(t, func(cmd string) string { return "ok\r\n" })
	p := testPrinter(t, f, WithGateWait(100*time.Millisecond))

	if !p.Gate().TryAcquire() {
		t.Fatal("gate should be free")
	}
	defer p.Gate().Release()

	_, err := p.SendCommand(CmdTemperature)
	if err != ErrGateBusy {
		t.Fatalf("expected ErrGateBusy, got: %v", err)
	}

	if got := f.commands(); len(got) != 0 {
		t.Errorf("busy gate must not touch the wire, got %v", got)
	}
}

func TestSendRawStripsTerminators(t *testing.T) {
	f := startFakeFirmware(t, func(cmd string) string { return "ok\r\n" })
	p := testPrinter(t, f)

	if _, err := p.SendRaw("  G28\r\n"); err != nil {
		t.Fatalf("SendRaw failed: %v", err)
	}

	got := f.commands()
	if len(got) != 1 || got[0] != "G28" {
		t.Errorf("expected [G28] on the wire, got %v", got)
	}
}
