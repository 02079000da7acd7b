package document

import (
	"testing"
	"time"

	"github.com/teamdocs/procap/internal/session"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func findSection(t *testing.T, m Model, heading string) Section {
	t.Helper()
	for _, s := range m.Sections {
		if s.Heading == heading {
			return s
		}
	}
	t.Fatalf("section %q not found", heading)
	return Section{}
}

func hasSection(m Model, heading string) bool {
	for _, s := range m.Sections {
		if s.Heading == heading {
			return true
		}
	}
	return false
}

func TestAssemble_DraftTitleAndBanner(t *testing.T) {
	m := Assemble(session.ProcessRecord{}, "", "", true, testNow)
	if m.Title != draftTitle {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Banner != draftBanner {
		t.Errorf("Banner = %q", m.Banner)
	}

	m = Assemble(session.ProcessRecord{}, "", "", false, testNow)
	if m.Title != finalTitle || m.Banner != "" {
		t.Errorf("final doc: Title = %q, Banner = %q", m.Title, m.Banner)
	}
}

func TestAssemble_MetaFallbacks(t *testing.T) {
	m := Assemble(session.ProcessRecord{}, "", "", false, testNow)
	if m.Meta.Employee != notProvided || m.Meta.Division != notProvided {
		t.Errorf("Meta = %+v, want placeholders", m.Meta)
	}
	if m.Meta.Date != "March 1, 2024" {
		t.Errorf("Meta.Date = %q", m.Meta.Date)
	}
}

func TestAssemble_ScalarPlaceholder(t *testing.T) {
	m := Assemble(session.ProcessRecord{}, "", "", false, testNow)
	s := findSection(t, m, "Purpose (Job Statement)")
	if s.Text != notDocumented || !s.Italic {
		t.Errorf("empty Purpose rendered as %+v, want italic placeholder", s)
	}

	m = Assemble(session.ProcessRecord{Purpose: "Keep everyone informed"}, "", "", false, testNow)
	s = findSection(t, m, "Purpose (Job Statement)")
	if s.Text != "Keep everyone informed" || s.Italic {
		t.Errorf("Purpose = %+v", s)
	}
}

func TestAssemble_ListSkipsBlankElements(t *testing.T) {
	m := Assemble(session.ProcessRecord{Tools: []string{"Teams", "", "Jira"}}, "", "", false, testNow)
	s := findSection(t, m, "Tools & Channels")
	if s.Kind != SectionBullets || len(s.Items) != 2 {
		t.Errorf("Tools section = %+v", s)
	}

	// All-blank elements collapse to the placeholder.
	m = Assemble(session.ProcessRecord{Tools: []string{"", ""}}, "", "", false, testNow)
	s = findSection(t, m, "Tools & Channels")
	if s.Kind != SectionParagraph || s.Text != notDocumented {
		t.Errorf("all-blank Tools section = %+v", s)
	}
}

func TestRACI_RowCountIsMaxSequenceLength(t *testing.T) {
	cases := []struct {
		name  string
		roles session.RoleAssignment
		steps []string
		rows  int
	}{
		{"even", session.RoleAssignment{
			Responsible: []string{"a", "b"},
			Accountable: []string{"c", "d"},
		}, nil, 2},
		{"ragged", session.RoleAssignment{
			Responsible: []string{"a", "b", "c", "d", "e"},
		}, nil, 5},
		{"steps only", session.RoleAssignment{}, []string{"one", "two", "three"}, 1},
		{"consulted longest", session.RoleAssignment{
			Responsible: []string{"a"},
			Consulted:   []string{"x", "y", "z", "w"},
		}, nil, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := session.ProcessRecord{Roles: tc.roles, Steps: tc.steps}
			s := findSection(t, Assemble(rec, "", "", false, testNow), "Primary Participants (RACI Matrix)")
			if len(s.Table.Rows) != tc.rows {
				t.Errorf("rows = %d, want %d", len(s.Table.Rows), tc.rows)
			}
		})
	}
}

func TestRACI_RaggedCellsFill(t *testing.T) {
	rec := session.ProcessRecord{
		Steps: []string{"Draft the post"},
		Roles: session.RoleAssignment{
			Responsible: []string{"Jane", "Sam"},
			Accountable: []string{"Lead"},
		},
	}
	s := findSection(t, Assemble(rec, "", "", false, testNow), "Primary Participants (RACI Matrix)")

	rows := s.Table.Rows
	if rows[0][0] != "Draft the post" {
		t.Errorf("row 0 step = %q", rows[0][0])
	}
	// Second row has no step: literal fallback.
	if rows[1][0] != "Step 2" {
		t.Errorf("row 1 step = %q, want Step 2", rows[1][0])
	}
	if rows[1][1] != "Sam" {
		t.Errorf("row 1 responsible = %q", rows[1][1])
	}
	// Accountable ran out: empty cell, not a placeholder.
	if rows[1][2] != "" {
		t.Errorf("row 1 accountable = %q, want empty", rows[1][2])
	}
}

func TestRACI_EmptyTableGetsPlaceholderRow(t *testing.T) {
	s := findSection(t, Assemble(session.ProcessRecord{}, "", "", false, testNow), "Primary Participants (RACI Matrix)")

	if len(s.Table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 placeholder row", len(s.Table.Rows))
	}
	for i, cell := range s.Table.Rows[0] {
		if cell != toBeFilled {
			t.Errorf("cell %d = %q, want %q", i, cell, toBeFilled)
		}
	}
}

func TestAssemble_StepsNumberedInOrder(t *testing.T) {
	rec := session.ProcessRecord{Steps: []string{"first", "second", "third"}}
	s := findSection(t, Assemble(rec, "", "", false, testNow), "Critical Steps")
	if s.Kind != SectionNumbered {
		t.Fatalf("Kind = %q, want numbered", s.Kind)
	}
	for i, want := range []string{"first", "second", "third"} {
		if s.Items[i] != want {
			t.Errorf("step %d = %q, want %q", i, s.Items[i], want)
		}
	}
}

func TestAssemble_TimelineRequiresTimelineField(t *testing.T) {
	// Trigger and completion alone do not produce a timeline paragraph.
	rec := session.ProcessRecord{Trigger: "A request arrives", Completion: "Filed"}
	s := findSection(t, Assemble(rec, "", "", false, testNow), "Timeline")
	if s.Text != notDocumented {
		t.Errorf("Timeline without duration = %q, want placeholder", s.Text)
	}

	rec.Timeline = "Two days"
	s = findSection(t, Assemble(rec, "", "", false, testNow), "Timeline")
	want := "Trigger: A request arrives\nDuration: Two days\nCompletion: Filed"
	if s.Text != want {
		t.Errorf("Timeline = %q, want %q", s.Text, want)
	}

	rec = session.ProcessRecord{Timeline: "An hour"}
	s = findSection(t, Assemble(rec, "", "", false, testNow), "Timeline")
	want = "Trigger: N/A\nDuration: An hour\nCompletion: N/A"
	if s.Text != want {
		t.Errorf("Timeline = %q, want %q", s.Text, want)
	}
}

func TestAssemble_FeedbackPresentOnlyWhenGiven(t *testing.T) {
	m := Assemble(session.ProcessRecord{}, "", "", false, testNow)
	if hasSection(m, "User Feedback") {
		t.Error("feedback section rendered for empty feedback")
	}

	m = Assemble(session.ProcessRecord{Feedback: "Loved it"}, "", "", false, testNow)
	s := findSection(t, m, "User Feedback")
	if s.Text != "Loved it" || s.Highlight != feedbackFill {
		t.Errorf("feedback section = %+v", s)
	}
}

func TestAssemble_AllOtherSectionsAlwaysPresent(t *testing.T) {
	m := Assemble(session.ProcessRecord{}, "", "", false, testNow)
	for _, heading := range []string{
		"Process Name",
		"Purpose (Job Statement)",
		"Success Criteria",
		"Primary Participants (RACI Matrix)",
		"Tools & Channels",
		"Critical Steps",
		"Timeline",
		"Pain Points",
		"Common Breakdowns",
		"Training Gaps",
		"Improvement Ideas",
		"Summary",
	} {
		if !hasSection(m, heading) {
			t.Errorf("section %q missing from empty-record document", heading)
		}
	}
}

func TestAssemble_SummaryFallback(t *testing.T) {
	m := Assemble(session.ProcessRecord{}, "", "", false, testNow)
	s := findSection(t, m, "Summary")
	if s.Text != noSummary || !s.Italic || s.Highlight != summaryFill {
		t.Errorf("empty summary section = %+v", s)
	}
}
