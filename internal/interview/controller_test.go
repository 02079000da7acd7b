package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/teamdocs/procap/internal/genai"
	"github.com/teamdocs/procap/internal/session"
)

// mockCompleter implements Completer for testing.
type mockCompleter struct {
	reply       string
	err         error
	lastSystem  string
	lastHistory []genai.Message
	lastMessage string
}

func (m *mockCompleter) Complete(ctx context.Context, systemInstruction string, history []genai.Message, newMessage string) (string, error) {
	m.lastSystem = systemInstruction
	m.lastHistory = history
	m.lastMessage = newMessage
	return m.reply, m.err
}

func testLimits() Limits {
	return Limits{MaxMessages: 10, WarningAt: 6, FinalWarningAt: 8}
}

func newActiveSession() *session.Session {
	st := session.NewStore(90 * time.Minute)
	return st.Create("Jane", "Media Relations", time.Now())
}

func TestSubmitTurn_ConsumesTwoBudgetUnitsPerTurn(t *testing.T) {
	mock := &mockCompleter{reply: "Tell me more."}
	c := NewController(mock, testLimits())
	sess := newActiveSession()

	for k := 1; k <= 5; k++ {
		res, err := c.SubmitTurn(context.Background(), sess, fmt.Sprintf("answer %d", k))
		if err != nil {
			t.Fatalf("turn %d error: %v", k, err)
		}
		if res.MessageCount != 2*k {
			t.Fatalf("after %d turns MessageCount = %d, want %d", k, res.MessageCount, 2*k)
		}
		if res.ForceEnd {
			t.Fatalf("turn %d unexpectedly force-ended", k)
		}
	}

	// Budget is now exactly spent; the next turn must be rejected without
	// touching the transcript.
	before := len(sess.Messages)
	res, err := c.SubmitTurn(context.Background(), sess, "one more")
	if err != nil {
		t.Fatalf("over-budget turn error: %v", err)
	}
	if !res.ForceEnd {
		t.Error("over-budget turn: ForceEnd = false, want true")
	}
	if res.Reply != limitNotice {
		t.Errorf("over-budget reply = %q, want limit notice", res.Reply)
	}
	if len(sess.Messages) != before {
		t.Errorf("over-budget turn appended messages: %d -> %d", before, len(sess.Messages))
	}
}

func TestSubmitTurn_BuildsHistoryExcludingCurrentTurn(t *testing.T) {
	mock := &mockCompleter{reply: "ok"}
	c := NewController(mock, testLimits())
	sess := newActiveSession()

	if _, err := c.SubmitTurn(context.Background(), sess, "first"); err != nil {
		t.Fatal(err)
	}
	if len(mock.lastHistory) != 0 {
		t.Errorf("first turn history length = %d, want 0", len(mock.lastHistory))
	}

	if _, err := c.SubmitTurn(context.Background(), sess, "second"); err != nil {
		t.Fatal(err)
	}
	if len(mock.lastHistory) != 2 {
		t.Fatalf("second turn history length = %d, want 2", len(mock.lastHistory))
	}
	if mock.lastHistory[0].Role != genai.RoleUser || mock.lastHistory[1].Role != genai.RoleModel {
		t.Errorf("history roles = %s,%s want user,model", mock.lastHistory[0].Role, mock.lastHistory[1].Role)
	}
	if mock.lastMessage != "second" {
		t.Errorf("new message = %q, want second", mock.lastMessage)
	}
}

func TestSubmitTurn_IdentityContextInSystemInstruction(t *testing.T) {
	mock := &mockCompleter{reply: "ok"}
	c := NewController(mock, testLimits())
	sess := newActiveSession()

	if _, err := c.SubmitTurn(context.Background(), sess, "hello"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mock.lastSystem, "[Context: Speaking with Jane from Media Relations]") {
		t.Error("system instruction missing identity context")
	}
}

func TestSubmitTurn_WrapUpDirectiveNearBudget(t *testing.T) {
	mock := &mockCompleter{reply: "ok"}
	c := NewController(mock, testLimits())
	sess := newActiveSession()

	// Burn turns until remaining after the user message is within the
	// wrap-up threshold (count=7, remaining=3 on the 4th turn).
	for i := 0; i < 4; i++ {
		if _, err := c.SubmitTurn(context.Background(), sess, "answer"); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(mock.lastSystem, "Start wrapping up the interview") {
		t.Error("system instruction missing wrap-up directive near budget")
	}
}

func TestSubmitTurn_CompletionMarkerStripped(t *testing.T) {
	mock := &mockCompleter{reply: "All set! [INTERVIEW_COMPLETE]\nProcess: X\nSummary: Y"}
	c := NewController(mock, testLimits())
	sess := newActiveSession()

	res, err := c.SubmitTurn(context.Background(), sess, "looks right")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsComplete {
		t.Error("IsComplete = false, want true")
	}
	if res.Reply != "All set!" {
		t.Errorf("Reply = %q, want %q", res.Reply, "All set!")
	}
	if sess.Status != session.StatusComplete {
		t.Errorf("session status = %q, want complete", sess.Status)
	}
	if !strings.Contains(sess.Record.Summary, "Process: X") {
		t.Errorf("summary seed = %q, want trailing block", sess.Record.Summary)
	}
}

func TestSubmitTurn_AIFailureKeepsUserTurn(t *testing.T) {
	mock := &mockCompleter{err: errors.New("connection refused")}
	c := NewController(mock, testLimits())
	sess := newActiveSession()

	_, err := c.SubmitTurn(context.Background(), sess, "my answer")
	if !errors.Is(err, ErrAIService) {
		t.Fatalf("error = %v, want ErrAIService", err)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Content != "my answer" {
		t.Errorf("user turn not preserved after AI failure: %+v", sess.Messages)
	}
	if sess.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want 1", sess.MessageCount)
	}
}

func TestSubmitTurn_RejectsInactiveSession(t *testing.T) {
	mock := &mockCompleter{reply: "ok"}
	c := NewController(mock, testLimits())
	sess := newActiveSession()
	if err := sess.Transition(session.StatusEndedEarly); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SubmitTurn(context.Background(), sess, "hi"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for inactive session", err)
	}
}

func TestWarningThresholds(t *testing.T) {
	c := NewController(&mockCompleter{}, testLimits())

	cases := []struct {
		count                 int
		warning, finalWarning bool
	}{
		{0, false, false},
		{5, false, false},
		{6, true, false},
		{7, true, false},
		{8, false, true},
		{10, false, true},
	}
	for _, tc := range cases {
		w, fw := c.warnings(tc.count)
		if w != tc.warning || fw != tc.finalWarning {
			t.Errorf("warnings(%d) = %v,%v want %v,%v", tc.count, w, fw, tc.warning, tc.finalWarning)
		}
	}
}

func TestStripCompletionMarker_NoMarker(t *testing.T) {
	display, seed, found := stripCompletionMarker("  just a reply  ")
	if found || seed != "" {
		t.Errorf("found = %v seed = %q, want no marker", found, seed)
	}
	if display != "just a reply" {
		t.Errorf("display = %q", display)
	}
}
