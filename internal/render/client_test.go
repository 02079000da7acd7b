package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/teamdocs/procap/internal/document"
	"github.com/teamdocs/procap/internal/session"
)

func TestRender_PostsModelAndReturnsBytes(t *testing.T) {
	var got document.Model
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render" {
			t.Errorf("path = %q, want /render", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding model: %v", err)
		}
		w.Write([]byte("docx-bytes"))
	}))
	defer srv.Close()

	model := document.Assemble(session.ProcessRecord{ProcessName: "X"}, "Jane", "Media Relations", false, time.Now())
	b, err := New(srv.URL).Render(context.Background(), model)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(b) != "docx-bytes" {
		t.Errorf("bytes = %q", b)
	}
	if got.Title != model.Title {
		t.Errorf("posted title = %q, want %q", got.Title, model.Title)
	}
}

func TestRender_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "renderer down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Render(context.Background(), document.Model{}); err == nil {
		t.Fatal("Render() = nil error, want failure on 503")
	}
}

func TestRender_EmptyBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Render(context.Background(), document.Model{}); err == nil {
		t.Fatal("Render() = nil error, want failure on empty body")
	}
}
