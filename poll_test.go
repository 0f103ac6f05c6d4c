package shui

import (
	"testing"
	"time"
)

func TestMonitorPublishesUpdates(t *testing.T) {
	f := startFakeFirmware(t, statusHandler(printingReply))
	p := testPrinter(t, f)

	updates := make(chan StatusUpdate, 16)
	m := NewMonitor(p, 50*time.Millisecond, func(u StatusUpdate) {
		select {
		case updates <- u:
		default:
		}
	})

	m.Start()
	defer m.Stop()

	// İlk sorgu hemen yapılır, ikincisi aralık sonunda gelir.
	for i := 0; i < 2; i++ {
		select {
		case u := <-updates:
			if !u.Online {
				t.Fatalf("update %d: expected online, err=%v", i, u.Err)
			}
			if u.State != LifecyclePrinting {
				t.Errorf("update %d: expected PRINTING, got %s", i, u.State)
			}
			if u.Status == nil || u.Status.Progress == nil {
				t.Errorf("update %d: expected status with progress", i)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("update %d never arrived", i)
		}
	}
}

func TestMonitorOfflinePrinter(t *testing.T) {
	host, port := unusedAddr(t)
	p := NewPrinter(host, port,
		WithStatusTimeout(300*time.Millisecond),
		WithBannerTimeout(50*time.Millisecond),
	)

	updates := make(chan StatusUpdate, 16)
	m := NewMonitor(p, 50*time.Millisecond, func(u StatusUpdate) {
		select {
		case updates <- u:
		default:
		}
	})

	m.Start()
	defer m.Stop()

	select {
	case u := <-updates:
		if u.Online {
			t.Error("unreachable printer must publish offline")
		}
		if u.Err != ErrOffline {
			t.Errorf("expected ErrOffline, got %v", u.Err)
		}
		if u.State != LifecycleUnknown {
			t.Errorf("expected UNKNOWN, got %s", u.State)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("offline update never arrived")
	}
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	f := startFakeFirmware(t, statusHandler(idleReply))
	p := testPrinter(t, f)

	m := NewMonitor(p, 50*time.Millisecond, nil)

	m.Start()
	m.Start() // ikinci çağrı etkisiz
	m.Stop()
	m.Stop() // durmuş izleyicide etkisiz

	// Durdurulduktan sonra yeniden başlatılabilmeli.
	m.Start()
	m.Stop()
}

func TestMonitorDefaultInterval(t *testing.T) {
	m := NewMonitor(nil, 0, nil)
	if m.interval != DefaultPollInterval {
		t.Errorf("interval = %s, expected %s", m.interval, DefaultPollInterval)
	}
	if m2 := NewMonitor(nil, -time.Second, nil); m2.interval != DefaultPollInterval {
		t.Errorf("negative interval must fall back to default, got %s", m2.interval)
	}
}
