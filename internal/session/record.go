package session

// Divisions is the fixed CCD division enumeration offered at session start
// and embedded in the extraction prompt. Values outside this list are carried
// as "Other: <text>".
var Divisions = []string{
	"Management & Administration",
	"Media Relations",
	"Content Strategy & Coordination",
	"Enterprise Social Media",
	"Channel Strategy & Management",
	"Area Relations",
	"Government, Community, and Interfaith Relations",
	"Reputation Management & Special Projects",
	"Messaging & Strategic Initiatives",
	"Controller",
}

// RoleAssignment groups the RACI participant lists. The four sequences are
// independently sized; the document assembler lines them up by index.
type RoleAssignment struct {
	Responsible []string `json:"responsible"`
	Accountable []string `json:"accountable"`
	Consulted   []string `json:"consulted"`
	Informed    []string `json:"informed"`
}

// ProcessRecord is the structured output of one documented work process.
// Empty strings and nil slices mean "not captured"; placeholder text is a
// rendering concern, never stored here.
type ProcessRecord struct {
	ProcessName     string         `json:"processName"`
	Purpose         string         `json:"purpose"`
	SuccessCriteria string         `json:"successCriteria"`
	Trigger         string         `json:"trigger"`
	Timeline        string         `json:"timeline"`
	Completion      string         `json:"completion"`
	Steps           []string       `json:"steps"`
	Roles           RoleAssignment `json:"roles"`
	Tools           []string       `json:"tools"`
	PainPoints      []string       `json:"painPoints"`
	Breakdowns      []string       `json:"breakdowns"`
	TrainingGaps    []string       `json:"trainingGaps"`
	Improvements    []string       `json:"improvements"`
	Summary         string         `json:"summary"`
	Feedback        string         `json:"feedback"`
}
