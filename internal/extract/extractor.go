package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teamdocs/procap/internal/session"
)

// minMessagesForExtraction is the transcript size below which a partial
// extraction is skipped entirely; there is nothing worth a model call.
const minMessagesForExtraction = 3

// ErrAIService marks a failed generation call on the full-extraction path.
var ErrAIService = errors.New("ai service failure")

// OutcomeStatus tags what actually happened during an extraction, so
// callers can tell "nothing new was said" apart from "extraction failed".
type OutcomeStatus string

const (
	// OutcomeMerged means the model output parsed and was merged into the
	// session's record.
	OutcomeMerged OutcomeStatus = "merged"
	// OutcomeSkipped means the transcript was too sparse and no model call
	// was made. The existing record is untouched.
	OutcomeSkipped OutcomeStatus = "skipped_insufficient"
	// OutcomeFailed means the model call or its output failed; the
	// existing record is untouched and the caller may still render it.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome describes one extraction attempt.
type Outcome struct {
	Status OutcomeStatus
	Note   string
}

// Generator is the single-shot side of the generative capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor converts an accumulated transcript into structured record
// fields and merges them, non-destructively, into the session.
type Extractor struct {
	client Generator
	logger *slog.Logger
}

// NewExtractor creates an Extractor using the given generation client.
func NewExtractor(client Generator) *Extractor {
	return &Extractor{client: client, logger: slog.Default()}
}

// Extract runs one extraction pass over the session transcript. The caller
// must hold the session lock.
//
// With allowPartial set (early termination) every failure mode is recovered:
// the session's existing record is preserved and the Outcome carries a note.
// Without it, a failed model call is surfaced as ErrAIService so the caller
// can retry; parse failures are still recovered, never propagated.
func (e *Extractor) Extract(ctx context.Context, sess *session.Session, allowPartial bool) (Outcome, error) {
	if allowPartial && len(sess.Messages) < minMessagesForExtraction {
		return Outcome{
			Status: OutcomeSkipped,
			Note:   "Not enough conversation data to extract. Document will be mostly empty.",
		}, nil
	}

	prompt := buildPrompt(transcript(sess.Messages), allowPartial)

	raw, err := e.client.Generate(ctx, prompt)
	if err != nil {
		if allowPartial {
			e.logger.Warn("partial extraction call failed, keeping prior record", "session_id", sess.ID, "error", err)
			return Outcome{
				Status: OutcomeFailed,
				Note:   "Partial data extraction failed, but you can still download what was captured.",
			}, nil
		}
		return Outcome{}, fmt.Errorf("%w: %v", ErrAIService, err)
	}

	var parsed extractedRecord
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		// Model output is untrusted; a malformed payload never discards
		// what was already captured.
		e.logger.Warn("failed to parse extraction response, keeping prior record",
			"session_id", sess.ID, "error", err, "response", truncate(raw, 200))
		return Outcome{
			Status: OutcomeFailed,
			Note:   "Extraction returned malformed data; previously captured fields were kept.",
		}, nil
	}

	mergeRecord(&sess.Record, parsed)
	if parsed.EmployeeName != nil && *parsed.EmployeeName != "" {
		sess.EmployeeName = *parsed.EmployeeName
	}
	if parsed.Division != nil && *parsed.Division != "" {
		sess.Division = normalizeDivision(*parsed.Division)
	}

	return Outcome{Status: OutcomeMerged}, nil
}

// stripFences removes markdown code-fence wrapping (```json ... ```) that
// models commonly add despite being told not to.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
