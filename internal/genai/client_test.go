package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func candidateResponse(text string) string {
	b, _ := json.Marshal(generateResponse{
		Candidates: []struct {
			Content content `json:"content"`
		}{
			{Content: content{Role: RoleModel, Parts: []part{{Text: text}}}},
		},
	})
	return string(b)
}

func TestComplete_SendsSystemAndHistory(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("api key header = %q, want k", r.Header.Get("x-goog-api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(candidateResponse("hello there")))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", "gemini-2.5-flash", srv.URL)
	history := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleModel, Content: "welcome"},
	}
	reply, err := c.Complete(context.Background(), "be helpful", history, "next question")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if reply != "hello there" {
		t.Errorf("reply = %q, want %q", reply, "hello there")
	}

	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Errorf("system instruction not forwarded: %+v", got.SystemInstruction)
	}
	if len(got.Contents) != 3 {
		t.Fatalf("len(contents) = %d, want 3 (history + new message)", len(got.Contents))
	}
	last := got.Contents[2]
	if last.Role != RoleUser || last.Parts[0].Text != "next question" {
		t.Errorf("last content = %+v, want new user message", last)
	}
}

func TestGenerate_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(candidateResponse("ok")))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", "gemini-2.5-flash", srv.URL)
	text, err := c.Generate(context.Background(), "extract this")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q, want ok", text)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerate_SurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", "gemini-2.5-flash", srv.URL)
	if _, err := c.Generate(context.Background(), "p"); err == nil {
		t.Fatal("Generate() = nil error, want upstream error")
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", "gemini-2.5-flash", srv.URL)
	if _, err := c.Generate(context.Background(), "p"); err == nil {
		t.Fatal("Generate() = nil error, want empty candidates error")
	}
}

func TestGenerate_JoinsMultipleParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"foo "},{"text":"bar"}]}}]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", "gemini-2.5-flash", srv.URL)
	text, err := c.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if text != "foo bar" {
		t.Errorf("text = %q, want %q", text, "foo bar")
	}
}
