package session

import (
	"strings"
	"testing"
	"time"
)

func TestChatLog_Format(t *testing.T) {
	s := &Session{
		EmployeeName: "Jane Doe",
		Division:     "Media Relations",
	}
	s.Append(RoleUser, "Hi, I'm Jane")
	s.Append(RoleAssistant, "Welcome to CCD Process Capture!")

	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	log := ChatLog(s, now)

	for _, want := range []string{
		"Employee: Jane Doe",
		"Division: Media Relations",
		"Date: 2024-03-01 09:30:00",
		"[You]\nHi, I'm Jane",
		"[Assistant]\nWelcome to CCD Process Capture!",
		"Total messages: 2",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("chat log missing %q\n%s", want, log)
		}
	}
}

func TestChatLog_MissingIdentity(t *testing.T) {
	log := ChatLog(&Session{}, time.Now())
	if !strings.Contains(log, "Employee: Not provided") {
		t.Error("missing employee fallback")
	}
	if !strings.Contains(log, "Division: Not provided") {
		t.Error("missing division fallback")
	}
}

func TestChatLogFilename(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got := ChatLogFilename(&Session{EmployeeName: "Jane Doe"}, date)
	if got != "chat-log_Jane-Doe_2024-03-01.txt" {
		t.Errorf("filename = %q", got)
	}

	got = ChatLogFilename(&Session{}, date)
	if got != "chat-log_session_2024-03-01.txt" {
		t.Errorf("anonymous filename = %q", got)
	}
}
