package session

import (
	"fmt"
	"strings"
	"time"
)

// ChatLog renders the session transcript as plain text: a header block,
// each message labeled by speaker, and a total-message-count footer. The
// output is deterministic for a given session and export time.
func ChatLog(s *Session, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("CCD Process Capture - Chat Log\n")
	sb.WriteString("================================\n")
	fmt.Fprintf(&sb, "Employee: %s\n", orNotProvided(s.EmployeeName))
	fmt.Fprintf(&sb, "Division: %s\n", orNotProvided(s.Division))
	fmt.Fprintf(&sb, "Date: %s\n", now.Format("2006-01-02 15:04:05"))
	sb.WriteString("================================\n\n")

	for _, msg := range s.Messages {
		label := "Assistant"
		if msg.Role == RoleUser {
			label = "You"
		}
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", label, msg.Content)
	}

	sb.WriteString("================================\n")
	fmt.Fprintf(&sb, "Total messages: %d\n", len(s.Messages))

	return sb.String()
}

// ChatLogFilename derives the download name for a chat-log export.
func ChatLogFilename(s *Session, date time.Time) string {
	name := "session"
	if s.EmployeeName != "" {
		name = slugify(s.EmployeeName)
	}
	return fmt.Sprintf("chat-log_%s_%s.txt", name, date.Format("2006-01-02"))
}

func orNotProvided(v string) string {
	if v == "" {
		return "Not provided"
	}
	return v
}

func slugify(v string) string {
	var sb strings.Builder
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
