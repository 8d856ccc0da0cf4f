package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestReleaseClient_GitHubRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://example.com/releases/v1.4.0","draft":false,"prerelease":false}`))
	}))
	defer srv.Close()

	client := NewReleaseClient(srv.URL, "v1.3.2", time.Second, nil)
	result, err := client.CheckForUpdate(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Version != "v1.3.2" || result.Latest != "v1.4.0" || result.PageURL != "https://example.com/releases/v1.4.0" {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestReleaseClient_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"version":"1.0.0","latest":"1.1.0","page_url":"https://x"}}`))
	}))
	defer srv.Close()

	result, err := NewReleaseClient(srv.URL, "0.0.0", 0, nil).CheckForUpdate(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Version != "1.0.0" || result.Latest != "1.1.0" || result.PageURL != "https://x" {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestReleaseClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "invalid json", status: http.StatusOK, body: `{"tag_name":`},
		{name: "missing tag", status: http.StatusOK, body: `{"html_url":"https://x"}`},
		{name: "rejected envelope", status: http.StatusOK, body: `{"success":false,"msg":"nope","data":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewReleaseClient(srv.URL, "1.0.0", time.Second, nil).CheckForUpdate(context.Background()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestReleaseClient_PrereleaseIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v2.0.0-rc1","html_url":"https://x","prerelease":true}`))
	}))
	defer srv.Close()

	result, err := NewReleaseClient(srv.URL, "1.0.0", time.Second, nil).CheckForUpdate(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Latest != "" {
		t.Errorf("Expected prerelease to be ignored, got %+v", result)
	}
}

func TestReleaseClient_SharesConcurrentRequests(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`{"tag_name":"v1.1.0","html_url":"https://x"}`))
	}))
	defer srv.Close()

	client := NewReleaseClient(srv.URL, "1.0.0", 5*time.Second, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.CheckForUpdate(context.Background()); err != nil {
				t.Errorf("CheckForUpdate failed: %v", err)
			}
		}()
	}

	// let the callers pile up on the in-flight request
	for hits.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("Expected one shared request, got %d", got)
	}
}

func TestReleaseClient_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`{"tag_name":"v1.1.0","html_url":"https://x"}`))
	}))
	defer srv.Close()

	client := NewReleaseClient(srv.URL, "1.0.0", 5*time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.CheckForUpdate(ctx)
		firstErr <- err
	}()
	for hits.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	type outcome struct {
		latest string
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := client.CheckForUpdate(context.Background())
		second <- outcome{res.Latest, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected the cancelled caller to get context.Canceled, got %v", err)
	}

	close(release)
	got := <-second
	if got.err != nil || got.latest != "v1.1.0" {
		t.Errorf("Expected the other caller to succeed, got %+v", got)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("Expected one shared request, got %d", n)
	}
}
