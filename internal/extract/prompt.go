package extract

import (
	"fmt"
	"strings"

	"github.com/teamdocs/procap/internal/session"
)

const fullPreamble = `Analyze this process documentation interview and extract structured data.`

const partialPreamble = `Analyze this PARTIAL process documentation interview and extract whatever structured data is available.
This interview was ended early, so some fields may be incomplete or missing.`

const schemaBlock = `Extract the following information as JSON. Use null for any fields not discussed:

{
  "employeeName": "string",
  "division": "string - MUST be one of the valid divisions above, or 'Other: [what they said]' if no match",
  "processName": "string - clear action-oriented title",
  "purpose": "string - why this process exists",
  "successCriteria": "string - what 'done' looks like",
  "trigger": "string - what initiates this process",
  "timeline": "string - how long it typically takes",
  "completion": "string - what happens when complete",
  "steps": ["array of critical steps in order"],
  "roles": {
    "responsible": ["who does the work"],
    "accountable": ["who owns the outcome"],
    "consulted": ["who provides input"],
    "informed": ["who receives updates"]
  },
  "tools": ["systems/platforms used"],
  "painPoints": ["frustrating or time-consuming aspects"],
  "breakdowns": ["common failure modes"],
  "trainingGaps": ["areas needing more training"],
  "improvements": ["suggested improvements"],
  "summary": "2-3 sentence summary of the entire process",
  "feedback": "any feedback the user provided about this tool or experience, or null if none"
}

Return ONLY valid JSON, no markdown or explanation.`

// buildPrompt assembles the single-shot extraction prompt: preamble,
// transcript, the fixed division enumeration, and the JSON schema.
func buildPrompt(transcript string, partial bool) string {
	preamble := fullPreamble
	if partial {
		preamble = partialPreamble
	}

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n\nCONVERSATION:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\nVALID DIVISIONS (use exact match or \"Other\" if not matching):\n")
	for _, d := range session.Divisions {
		fmt.Fprintf(&sb, "- %s\n", d)
	}
	sb.WriteString("\n")
	sb.WriteString(schemaBlock)
	return sb.String()
}

// transcript flattens the message sequence into role-labeled lines in
// message order.
func transcript(messages []session.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		label := "Assistant"
		if m.Role == session.RoleUser {
			label = "Employee"
		}
		lines[i] = fmt.Sprintf("%s: %s", label, m.Content)
	}
	return strings.Join(lines, "\n\n")
}
