package shui

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// uploadPrinter, sahte yükleme sunucusunu hedefleyen bir Printer döner.
// Yükleme komut portunu kullanmadığı için host, test sunucusunun
// "adres:port" değeriyle verilir.
func uploadPrinter(srv *httptest.Server) *Printer {
	host := strings.TrimPrefix(srv.URL, "http://")
	return NewPrinter(host, DefaultCommandPort)
}

func TestUploadSuccess(t *testing.T) {
	content := bytes.Repeat([]byte("G1 X10 Y10\n"), 1000)

	var gotFilename, gotContentType string
	var gotLength int64
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilename = r.URL.Query().Get("X-Filename")
		gotContentType = r.Header.Get("Content-Type")
		gotLength = r.ContentLength
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"err":0}`))
	}))
	defer srv.Close()

	p := uploadPrinter(srv)

	var progress []int64
	result := p.Upload("benchy v2.gcode", content, func(sent, total int64) {
		if total != int64(len(content)) {
			t.Errorf("progress total = %d, expected %d", total, len(content))
		}
		progress = append(progress, sent)
	})

	if !result.Success {
		t.Fatalf("upload failed: %s", result.Message)
	}
	if gotFilename != "benchy v2.gcode" {
		t.Errorf("X-Filename = %q", gotFilename)
	}
	if gotContentType != "application/octet-stream" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotLength != int64(len(content)) {
		t.Errorf("Content-Length = %d, expected %d", gotLength, len(content))
	}
	if !bytes.Equal(gotBody, content) {
		t.Error("body bytes do not match the content")
	}

	if result.SpeedKBs <= 0 {
		t.Errorf("expected positive transfer speed, got %v", result.SpeedKBs)
	}
	if !strings.Contains(result.Message, "benchy v2.gcode") {
		t.Errorf("message should name the file: %q", result.Message)
	}

	// İlerleme tekdüze artmalı ve toplamda bitmeli.
	if len(progress) == 0 {
		t.Fatal("progress callback never fired")
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("progress went backwards: %v", progress)
		}
	}
	if last := progress[len(progress)-1]; last != int64(len(content)) {
		t.Errorf("final progress = %d, expected %d", last, len(content))
	}
}

func TestUploadFirmwareError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"err":1}`))
	}))
	defer srv.Close()

	result := uploadPrinter(srv).Upload("part.gcode", []byte("G28\n"), nil)
	if result.Success {
		t.Fatal("err=1 reply must not be treated as success")
	}
	if !strings.Contains(result.Message, `{"err":1}`) {
		t.Errorf("message should carry the raw reply: %q", result.Message)
	}
}

func TestUploadUnparseableReply(t *testing.T) {
	bodies := []string{"<html>busy</html>", "", `{"status":"ok"}`}

	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		result := uploadPrinter(srv).Upload("part.gcode", []byte("G28\n"), nil)
		srv.Close()

		if result.Success {
			t.Errorf("reply %q must not be treated as success", body)
		}
		if !strings.Contains(result.Message, "çözümlenemedi") {
			t.Errorf("reply %q: expected parse-failure message, got %q", body, result.Message)
		}
	}
}

func TestUploadConnectionRefused(t *testing.T) {
	host, _ := unusedAddr(t)
	p := NewPrinter(host+":1", DefaultCommandPort)

	result := p.Upload("part.gcode", []byte("G28\n"), nil)
	if result.Success {
		t.Fatal("unreachable printer must not report success")
	}
	if result.Message == "" {
		t.Error("failure must carry a diagnostic message")
	}
}

func TestUploadReadTimeoutScaling(t *testing.T) {
	// Küçük dosyalar taban süreyi alır.
	if d := uploadReadTimeout(1024); d.Seconds() != 180 {
		t.Errorf("small file timeout = %s, expected 180s", d)
	}
	// 10 MB: 10485760/10240 + 120 = 1144s.
	if d := uploadReadTimeout(10 << 20); int(d.Seconds()) != 1144 {
		t.Errorf("10MB timeout = %s, expected 1144s", d)
	}
}
