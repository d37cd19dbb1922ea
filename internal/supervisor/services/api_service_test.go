// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// fakeHTTPServer blocks in Serve until Shutdown unless serveErr is set.
type fakeHTTPServer struct {
	serveErr    error
	shutdownErr error
	serves      atomic.Int32
	shutdowns   atomic.Int32
	started     chan struct{}
	stopCh      chan struct{}
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (f *fakeHTTPServer) Serve(l net.Listener) error {
	defer l.Close()
	f.serves.Add(1)
	select {
	case f.started <- struct{}{}:
	default:
	}

	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.stopCh
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.stopCh)
	return f.shutdownErr
}

var _ suture.Service = (*APIService)(nil)

// busyAddr returns an address that is already bound for the rest of the test.
func busyAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String()
}

func TestAPIService_WithShutdownTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"explicit", 3 * time.Second, 3 * time.Second},
		{"zero", 0, 10 * time.Second},
		{"negative", -time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAPIService("127.0.0.1:0", newFakeHTTPServer(), zerolog.Nop()).WithShutdownTimeout(tt.timeout)
			if svc.shutdownTimeout != tt.want {
				t.Errorf("shutdownTimeout = %v, want %v", svc.shutdownTimeout, tt.want)
			}
			if svc.String() != "api" {
				t.Errorf("String() = %q", svc.String())
			}
			if svc.Addr() != "" {
				t.Errorf("Addr() before Serve = %q, want empty", svc.Addr())
			}
		})
	}
}

func TestAPIService_Serve(t *testing.T) {
	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		server := newFakeHTTPServer()
		svc := NewAPIService("127.0.0.1:0", server, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		select {
		case <-server.started:
		case <-time.After(time.Second):
			t.Fatal("server did not start")
		}
		if _, port, _ := net.SplitHostPort(svc.Addr()); port == "" || port == "0" {
			t.Errorf("Addr() = %q, want the bound port", svc.Addr())
		}
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
		if server.serves.Load() != 1 || server.shutdowns.Load() != 1 {
			t.Errorf("serves=%d shutdowns=%d, want 1 each", server.serves.Load(), server.shutdowns.Load())
		}
	})

	t.Run("address in use stops the tree", func(t *testing.T) {
		server := newFakeHTTPServer()
		err := NewAPIService(busyAddr(t), server, zerolog.Nop()).Serve(context.Background())

		if !errors.Is(err, suture.ErrTerminateSupervisorTree) {
			t.Errorf("Serve() = %v, want ErrTerminateSupervisorTree", err)
		}
		if server.serves.Load() != 0 {
			t.Errorf("Serve called %d times after a failed bind", server.serves.Load())
		}
	})

	t.Run("serve failure is restartable", func(t *testing.T) {
		crash := errors.New("accept: too many open files")
		server := newFakeHTTPServer()
		server.serveErr = crash

		err := NewAPIService("127.0.0.1:0", server, zerolog.Nop()).Serve(context.Background())
		if !errors.Is(err, crash) {
			t.Errorf("Serve() = %v, want %v", err, crash)
		}
		if errors.Is(err, suture.ErrTerminateSupervisorTree) || errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() = %v, want a restartable error", err)
		}
	})

	t.Run("closed elsewhere", func(t *testing.T) {
		server := newFakeHTTPServer()
		server.serveErr = http.ErrServerClosed

		err := NewAPIService("127.0.0.1:0", server, zerolog.Nop()).Serve(context.Background())
		if !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() = %v, want ErrDoNotRestart", err)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newFakeHTTPServer()
		server.shutdownErr = shutdownErr
		svc := NewAPIService("127.0.0.1:0", server, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-server.started
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, shutdownErr) {
				t.Errorf("Serve() = %v, want %v", err, shutdownErr)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
	})
}

func TestAPIService_ServesHTTP(t *testing.T) {
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "shelf")
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewAPIService("127.0.0.1:0", server, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for svc.Addr() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Get("http://" + svc.Addr() + "/")
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "shelf" {
		t.Errorf("body = %q, want shelf", body)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestAPIService_BindFailureStopsSupervisor(t *testing.T) {
	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	server := newFakeHTTPServer()
	sup.Add(NewAPIService(busyAddr(t), server, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := sup.Serve(ctx)
	if !errors.Is(err, suture.ErrTerminateSupervisorTree) || errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("supervisor returned %v, want the bind error", err)
	}
}

func TestAPIService_WithSupervisor(t *testing.T) {
	server := newFakeHTTPServer()

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(NewAPIService("127.0.0.1:0", server, zerolog.Nop()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	select {
	case <-server.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}

	cancel()
	<-errCh

	if server.shutdowns.Load() != 1 {
		t.Errorf("shutdowns = %d, want 1", server.shutdowns.Load())
	}
}
