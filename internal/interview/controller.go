package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamdocs/procap/internal/genai"
	"github.com/teamdocs/procap/internal/session"
)

// wrapUpThreshold is the remaining-budget point at which the model is told
// to steer the interview toward completion.
const wrapUpThreshold = 5

// limitNotice is returned in place of a model reply once the message budget
// is exhausted.
const limitNotice = "We've reached the session limit. Let me help you wrap up and save what we've captured so far."

// ErrAIService marks a failed completion call. The user's turn stays
// appended to the transcript, so a retry does not lose their message.
var ErrAIService = errors.New("ai service failure")

// Completer is the chat side of the generative capability.
type Completer interface {
	Complete(ctx context.Context, systemInstruction string, history []genai.Message, newMessage string) (string, error)
}

// Limits carries the interview budget thresholds.
type Limits struct {
	MaxMessages    int
	WarningAt      int
	FinalWarningAt int
}

// TurnResult is the outcome of one accepted (or budget-rejected) turn.
type TurnResult struct {
	Reply            string
	IsComplete       bool
	ForceEnd         bool
	MessageCount     int
	Remaining        int
	ShowWarning      bool
	ShowFinalWarning bool
}

// Controller owns the per-turn interview interaction: budget enforcement,
// history construction, and completion-marker detection.
type Controller struct {
	client Completer
	limits Limits
}

// NewController creates a Controller with the given completion client and
// budget limits.
func NewController(client Completer, limits Limits) *Controller {
	return &Controller{client: client, limits: limits}
}

// SubmitTurn processes one user message against an active session. The
// caller must hold the session lock for the duration of the call.
//
// Each accepted turn consumes exactly two budget units: the user message
// and the model reply. Once the budget is spent the turn is rejected with
// ForceEnd set and nothing is appended.
func (c *Controller) SubmitTurn(ctx context.Context, sess *session.Session, userText string) (TurnResult, error) {
	if sess.Status != session.StatusActive {
		return TurnResult{}, session.ErrNotFound
	}

	sess.Touch(time.Now())

	// Budget ceiling: checked before any transcript mutation.
	if sess.MessageCount >= c.limits.MaxMessages {
		res := TurnResult{
			Reply:        limitNotice,
			ForceEnd:     true,
			MessageCount: sess.MessageCount,
		}
		res.ShowWarning, res.ShowFinalWarning = c.warnings(sess.MessageCount)
		return res, nil
	}

	sess.Append(session.RoleUser, userText)

	history := make([]genai.Message, 0, len(sess.Messages)-1)
	for _, m := range sess.Messages[:len(sess.Messages)-1] {
		role := genai.RoleModel
		if m.Role == session.RoleUser {
			role = genai.RoleUser
		}
		history = append(history, genai.Message{Role: role, Content: m.Content})
	}

	remaining := c.limits.MaxMessages - sess.MessageCount
	instruction := buildSystemInstruction(sess.EmployeeName, sess.Division, remaining)

	reply, err := c.client.Complete(ctx, instruction, history, userText)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrAIService, err)
	}

	sess.Append(session.RoleAssistant, reply)

	display, seed, isComplete := stripCompletionMarker(reply)
	if isComplete {
		if err := sess.Transition(session.StatusComplete); err != nil {
			return TurnResult{}, fmt.Errorf("marking session complete: %w", err)
		}
		// Provisional summary until extraction produces a real one.
		if seed != "" {
			sess.Record.Summary = seed
		}
	}

	res := TurnResult{
		Reply:        display,
		IsComplete:   isComplete,
		MessageCount: sess.MessageCount,
		Remaining:    c.limits.MaxMessages - sess.MessageCount,
	}
	res.ShowWarning, res.ShowFinalWarning = c.warnings(sess.MessageCount)
	return res, nil
}

// Warnings returns the threshold flags for a message count. They are
// derived projections, never stored on the session.
func (c *Controller) warnings(count int) (warning, finalWarning bool) {
	warning = count >= c.limits.WarningAt && count < c.limits.FinalWarningAt
	finalWarning = count >= c.limits.FinalWarningAt
	return warning, finalWarning
}

// StatusFor reports the budget view of a session for the status endpoint.
func (c *Controller) StatusFor(count int) (remaining int, warning, finalWarning, atLimit bool) {
	remaining = c.limits.MaxMessages - count
	warning, finalWarning = c.warnings(count)
	return remaining, warning, finalWarning, count >= c.limits.MaxMessages
}

// stripCompletionMarker splits a reply on the completion sentinel. The
// display text is everything before the marker; the seed is the trailing
// block the model emits after it (process name, summary, feedback lines).
func stripCompletionMarker(reply string) (display, seed string, found bool) {
	idx := strings.Index(reply, CompletionMarker)
	if idx < 0 {
		return strings.TrimSpace(reply), "", false
	}
	display = strings.TrimSpace(reply[:idx])
	seed = strings.TrimSpace(reply[idx+len(CompletionMarker):])
	return display, seed, true
}
