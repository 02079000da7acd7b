package document

import (
	"fmt"
	"time"

	"github.com/teamdocs/procap/internal/session"
)

const (
	notDocumented = "(Not documented)"
	notProvided   = "(Not provided)"
	toBeFilled    = "(To be filled)"
	noSummary     = "(No summary generated)"

	draftTitle  = "DRAFT - Process Summary Card (Incomplete)"
	finalTitle  = "Process Summary Card"
	draftBanner = "⚠ DRAFT - Interview ended early. This document may be incomplete."

	summaryFill  = "F5F5F5"
	feedbackFill = "FFF9E6"
)

var raciHeaders = []string{"Step/Task", "Responsible", "Accountable", "Consulted", "Informed"}

// Assemble lays the process record out into the fixed document schema.
// Pure transform: malformed or missing data renders as placeholder text,
// never as an error.
func Assemble(rec session.ProcessRecord, employeeName, division string, isDraft bool, now time.Time) Model {
	title := finalTitle
	banner := ""
	if isDraft {
		title = draftTitle
		banner = draftBanner
	}

	m := Model{
		Title:  title,
		Banner: banner,
		Meta: Meta{
			Employee: fallback(employeeName, notProvided),
			Division: fallback(division, notProvided),
			Date:     now.Format("January 2, 2006"),
		},
	}

	m.Sections = append(m.Sections,
		scalarSection("Process Name", rec.ProcessName),
		scalarSection("Purpose (Job Statement)", rec.Purpose),
		scalarSection("Success Criteria", rec.SuccessCriteria),
		raciSection(rec),
		listSection("Tools & Channels", rec.Tools),
		stepsSection(rec.Steps),
		scalarSection("Timeline", timelineText(rec)),
		listSection("Pain Points", rec.PainPoints),
		listSection("Common Breakdowns", rec.Breakdowns),
		listSection("Training Gaps", rec.TrainingGaps),
		listSection("Improvement Ideas", rec.Improvements),
		summarySection(rec.Summary),
	)

	// Feedback is the one conditionally present section: omitted entirely
	// when empty rather than rendered as a placeholder.
	if rec.Feedback != "" {
		m.Sections = append(m.Sections, Section{
			Kind:      SectionParagraph,
			Heading:   "User Feedback",
			Text:      rec.Feedback,
			Italic:    true,
			Highlight: feedbackFill,
		})
	}

	return m
}

// scalarSection renders one paragraph of text, or the italic placeholder
// when the value is empty.
func scalarSection(heading, text string) Section {
	if text == "" {
		return Section{Kind: SectionParagraph, Heading: heading, Text: notDocumented, Italic: true}
	}
	return Section{Kind: SectionParagraph, Heading: heading, Text: text}
}

// listSection renders one bulleted line per non-empty element, or the
// placeholder when the sequence is empty or every element is blank.
func listSection(heading string, items []string) Section {
	var kept []string
	for _, it := range items {
		if it != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return Section{Kind: SectionParagraph, Heading: heading, Text: notDocumented, Italic: true}
	}
	return Section{Kind: SectionBullets, Heading: heading, Items: kept}
}

func stepsSection(steps []string) Section {
	if len(steps) == 0 {
		return Section{Kind: SectionParagraph, Heading: "Critical Steps", Text: notDocumented, Italic: true}
	}
	return Section{Kind: SectionNumbered, Heading: "Critical Steps", Items: steps}
}

// raciSection builds the responsibility matrix as a single indexed view
// over the four role sequences. Row count is the longest sequence, floored
// at one; the Step/Task cell falls back to "Step N" and role cells to
// empty text where a sequence runs out.
func raciSection(rec session.ProcessRecord) Section {
	roles := rec.Roles
	rows := maxLen(roles.Responsible, roles.Accountable, roles.Consulted, roles.Informed)

	if rows == 0 && len(rec.Steps) == 0 {
		// Nothing at all: a single all-placeholder row, distinct from the
		// empty-cell case, signals the table is literally blank.
		return Section{
			Kind:    SectionTable,
			Heading: "Primary Participants (RACI Matrix)",
			Table: &Table{
				Headers: raciHeaders,
				Rows:    [][]string{{toBeFilled, toBeFilled, toBeFilled, toBeFilled, toBeFilled}},
			},
		}
	}
	if rows == 0 {
		rows = 1
	}

	table := &Table{Headers: raciHeaders}
	for i := 0; i < rows; i++ {
		step := at(rec.Steps, i)
		if step == "" {
			step = fmt.Sprintf("Step %d", i+1)
		}
		table.Rows = append(table.Rows, []string{
			step,
			at(roles.Responsible, i),
			at(roles.Accountable, i),
			at(roles.Consulted, i),
			at(roles.Informed, i),
		})
	}

	return Section{Kind: SectionTable, Heading: "Primary Participants (RACI Matrix)", Table: table}
}

// timelineText composes the timeline paragraph only when the timeline
// field itself is present; trigger or completion alone do not trigger it.
func timelineText(rec session.ProcessRecord) string {
	if rec.Timeline == "" {
		return ""
	}
	return fmt.Sprintf("Trigger: %s\nDuration: %s\nCompletion: %s",
		fallback(rec.Trigger, "N/A"), rec.Timeline, fallback(rec.Completion, "N/A"))
}

func summarySection(summary string) Section {
	s := Section{Kind: SectionParagraph, Heading: "Summary", Text: summary, Highlight: summaryFill}
	if summary == "" {
		s.Text = noSummary
		s.Italic = true
	}
	return s
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func maxLen(seqs ...[]string) int {
	m := 0
	for _, s := range seqs {
		if len(s) > m {
			m = len(s)
		}
	}
	return m
}
