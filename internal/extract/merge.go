package extract

import (
	"strings"

	"github.com/teamdocs/procap/internal/session"
)

// extractedRecord mirrors the JSON schema the model is asked to return.
// Pointer fields distinguish "returned null / omitted" from a real value,
// which is what makes the merge null-preserving.
type extractedRecord struct {
	EmployeeName    *string         `json:"employeeName"`
	Division        *string         `json:"division"`
	ProcessName     *string         `json:"processName"`
	Purpose         *string         `json:"purpose"`
	SuccessCriteria *string         `json:"successCriteria"`
	Trigger         *string         `json:"trigger"`
	Timeline        *string         `json:"timeline"`
	Completion      *string         `json:"completion"`
	Steps           []string        `json:"steps"`
	Roles           *extractedRoles `json:"roles"`
	Tools           []string        `json:"tools"`
	PainPoints      []string        `json:"painPoints"`
	Breakdowns      []string        `json:"breakdowns"`
	TrainingGaps    []string        `json:"trainingGaps"`
	Improvements    []string        `json:"improvements"`
	Summary         *string         `json:"summary"`
	Feedback        *string         `json:"feedback"`
}

type extractedRoles struct {
	Responsible []string `json:"responsible"`
	Accountable []string `json:"accountable"`
	Consulted   []string `json:"consulted"`
	Informed    []string `json:"informed"`
}

// mergeRecord overwrites dst fields with values present and non-null in
// src. Null or absent fields leave the existing value untouched, so
// re-running extraction never erases previously captured data.
func mergeRecord(dst *session.ProcessRecord, src extractedRecord) {
	setString(&dst.ProcessName, src.ProcessName)
	setString(&dst.Purpose, src.Purpose)
	setString(&dst.SuccessCriteria, src.SuccessCriteria)
	setString(&dst.Trigger, src.Trigger)
	setString(&dst.Timeline, src.Timeline)
	setString(&dst.Completion, src.Completion)
	setSlice(&dst.Steps, src.Steps)
	if src.Roles != nil {
		setSlice(&dst.Roles.Responsible, src.Roles.Responsible)
		setSlice(&dst.Roles.Accountable, src.Roles.Accountable)
		setSlice(&dst.Roles.Consulted, src.Roles.Consulted)
		setSlice(&dst.Roles.Informed, src.Roles.Informed)
	}
	setSlice(&dst.Tools, src.Tools)
	setSlice(&dst.PainPoints, src.PainPoints)
	setSlice(&dst.Breakdowns, src.Breakdowns)
	setSlice(&dst.TrainingGaps, src.TrainingGaps)
	setSlice(&dst.Improvements, src.Improvements)
	setString(&dst.Summary, src.Summary)
	setString(&dst.Feedback, src.Feedback)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setSlice(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}

// normalizeDivision keeps exact enumeration matches and well-formed
// "Other: <text>" values; anything else gets the Other prefix applied. The
// model's output is untrusted, so membership is always checked.
func normalizeDivision(v string) string {
	for _, d := range session.Divisions {
		if v == d {
			return v
		}
	}
	if strings.HasPrefix(v, "Other: ") {
		return v
	}
	return "Other: " + v
}
