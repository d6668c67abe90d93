package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/sweep"
)

func TestStatusServer_ServesAndShutsDown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	progress := &mockProgress{snap: sweep.Snapshot{Design: "axi4l", Status: sweep.StatusRunning, Requested: 3}}
	srv, err := Listen("127.0.0.1:0", NewHandler(progress), zap.NewNop())
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + srv.Addr() + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	var snap sweep.Snapshot
	err = json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Design != "axi4l" || snap.Requested != 3 {
		t.Errorf("snapshot = %+v", snap)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestListen_BadAddress(t *testing.T) {
	if _, err := Listen("256.0.0.1:bad", NewHandler(&mockProgress{}), zap.NewNop()); err == nil {
		t.Fatal("Listen() expected error for invalid address")
	}
}
