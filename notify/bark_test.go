package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSendNotification(t *testing.T) {
	var gotTitle, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.URL.Query().Get("title")
		gotBody = r.URL.Query().Get("body")
	}))
	defer server.Close()

	n := NewBarkNotifier(server.URL, zap.NewNop())
	if !n.Send(context.Background(), "hello", "world") {
		t.Fatal("Send should report success")
	}
	if gotTitle != "hello" || gotBody != "world" {
		t.Errorf("got title=%q body=%q", gotTitle, gotBody)
	}
}

func TestSendDisabledWithoutURL(t *testing.T) {
	n := NewBarkNotifier("  ", zap.NewNop())
	if n.Enabled() {
		t.Error("blank url should disable the notifier")
	}
	if n.Send(context.Background(), "a", "b") {
		t.Error("disabled notifier must not report success")
	}
}

func TestSendServerErrorIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewBarkNotifier(server.URL, zap.NewNop())
	if n.Send(context.Background(), "a", "b") {
		t.Error("server error must not report success")
	}
}

func TestSendFilterReport(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = r.URL.Query().Get("body")
	}))
	defer server.Close()

	n := NewBarkNotifier(server.URL, zap.NewNop())
	if !n.SendFilterReport(context.Background(), 30, 12, 3, 15) {
		t.Fatal("SendFilterReport should report success")
	}
	want := "30 tracks in playlist\n12 already in library\n3 already on disk\n15 to download"
	if gotBody != want {
		t.Errorf("body = %q, want %q", gotBody, want)
	}
}

func TestSendResultReport(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = r.URL.Query().Get("body")
	}))
	defer server.Close()

	n := NewBarkNotifier(server.URL, zap.NewNop())
	if !n.SendResultReport(context.Background(), 10, 2, 12) {
		t.Fatal("SendResultReport should report success")
	}
	want := "12 queued\n10 succeeded\n2 failed"
	if gotBody != want {
		t.Errorf("body = %q, want %q", gotBody, want)
	}
}
