// README: Payload round-trip and decode pipeline ordering tests.
package qrcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"justonemore/internal/types"
)

func TestPayloadRoundTrip(t *testing.T) {
	ids := []types.ID{
		"d1",
		"5f0c0e9c6a314c0f9a9a1c8f1b2d3e4f",
		"dish-with-dashes",
	}
	for _, id := range ids {
		payload := EncodePayload(id)
		got, err := DecodePayload(payload)
		if err != nil {
			t.Fatalf("DecodePayload(%q): %v", payload, err)
		}
		if got != id {
			t.Errorf("round trip: got %q, want %q", got, id)
		}
	}
}

func TestDecodePayload_Malformed(t *testing.T) {
	cases := []string{
		"",
		"JOM1",
		"JOM1|",
		"JOM2|abc",
		"abc",
		"|abc",
		"jom1|abc",
	}
	for _, in := range cases {
		if _, err := DecodePayload(in); err != ErrBadPayload {
			t.Errorf("DecodePayload(%q): expected ErrBadPayload, got %v", in, err)
		}
	}
}

// stubDetector is a test double counting Detect calls.
type stubDetector struct {
	payload string
	calls   int
}

func (d *stubDetector) Detect(_ []byte) (string, error) {
	d.calls++
	return d.payload, nil
}

// stubRemote counts Decode calls.
type stubRemote struct {
	payload string
	err     error
	calls   int
}

func (r *stubRemote) Decode(_ context.Context, _ []byte) (string, error) {
	r.calls++
	return r.payload, r.err
}

func TestDecode_LocalSuccessSkipsRemote(t *testing.T) {
	det := &stubDetector{payload: "JOM1|abc"}
	remote := &stubRemote{payload: "JOM1|other"}
	svc := NewService(det, remote, true)

	got, err := svc.Decode(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "JOM1|abc" {
		t.Errorf("got %q, want local payload", got)
	}
	if remote.calls != 0 {
		t.Errorf("remote fallback invoked %d times, want 0", remote.calls)
	}
}

func TestDecode_FallbackDisabledNoNetwork(t *testing.T) {
	remote := &stubRemote{payload: "JOM1|abc"}
	svc := NewService(&stubDetector{payload: ""}, remote, false)

	if _, err := svc.Decode(context.Background(), []byte("img")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if remote.calls != 0 {
		t.Errorf("remote invoked with fallback disabled: %d calls", remote.calls)
	}
}

func TestDecode_FallbackUsedWhenLocalEmpty(t *testing.T) {
	det := &stubDetector{payload: ""}
	remote := &stubRemote{payload: "JOM1|from-remote"}
	svc := NewService(det, remote, true)

	got, err := svc.Decode(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "JOM1|from-remote" {
		t.Errorf("got %q, want remote payload", got)
	}
	if det.calls != 1 || remote.calls != 1 {
		t.Errorf("unexpected call counts: local=%d remote=%d", det.calls, remote.calls)
	}
}

func TestDecode_NilDetectorFallsThrough(t *testing.T) {
	remote := &stubRemote{payload: "JOM1|x"}
	svc := NewService(nil, remote, true)

	got, err := svc.Decode(context.Background(), []byte("img"))
	if err != nil || got != "JOM1|x" {
		t.Fatalf("got (%q, %v), want remote payload", got, err)
	}
}

func TestRemoteClient_ParsesSymbolShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("expected file form field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"type":"qrcode","symbol":[{"seq":0,"data":"JOM1|remote-dish","error":null}]}]`))
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL, 2*time.Second)
	got, err := client.Decode(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "JOM1|remote-dish" {
		t.Errorf("got %q", got)
	}
}

func TestRemoteClient_SoftFailures(t *testing.T) {
	cases := []struct {
		name string
		resp func(w http.ResponseWriter)
	}{
		{"non-2xx", func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) }},
		{"malformed body", func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{"oops":`)) }},
		{"empty array", func(w http.ResponseWriter) { _, _ = w.Write([]byte(`[]`)) }},
		{"null data", func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`[{"symbol":[{"data":null,"error":"not found"}]}]`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				tc.resp(w)
			}))
			defer srv.Close()

			client := NewRemoteClient(srv.URL, 2*time.Second)
			if _, err := client.Decode(context.Background(), []byte("img")); err == nil {
				t.Fatal("expected soft failure")
			}
		})
	}
}

func TestRenderThenLocalDetect(t *testing.T) {
	payload := EncodePayload("round-trip-dish")
	png, err := Render(payload)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got, err := NewLocalDetector().Detect(png)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if got != payload {
		t.Errorf("detected %q, want %q", got, payload)
	}
}

func TestLocalDetector_GarbageBytes(t *testing.T) {
	got, err := NewLocalDetector().Detect([]byte("definitely not an image"))
	if err != nil || got != "" {
		t.Fatalf("garbage input must yield empty result, got (%q, %v)", got, err)
	}
}
