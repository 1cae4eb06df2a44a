package cohort

import (
	"github.com/ddsjoberg/gt/domain/core"
)

// VarType defines variable types for summarization
type VarType string

const (
	TypeCategorical VarType = "categorical"
	TypeContinuous  VarType = "continuous"
)

// Variable describes one named column of the subject dataset:
// its semantic label, optional unit, and statistical type.
type Variable struct {
	Key   core.VariableKey `json:"key"`
	Label string           `json:"label"`
	Unit  string           `json:"unit,omitempty"` // continuous variables only
	Type  VarType          `json:"type"`
}

// CategoryTag returns the row-group tag summary rows carry for this
// variable: the semantic label, with the unit appended for continuous
// variables ("Age, years").
func (v Variable) CategoryTag() string {
	if v.Type == TypeContinuous && v.Unit != "" {
		return v.Label + ", " + v.Unit
	}
	return v.Label
}

// Value holds one observation for one variable. Categorical
// observations carry Str, continuous ones Num. A missing observation
// has Missing set and both payloads zero.
type Value struct {
	Num     float64 `json:"num,omitempty"`
	Str     string  `json:"str,omitempty"`
	Missing bool    `json:"missing,omitempty"`
}

// NumValue creates a continuous observation
func NumValue(v float64) Value {
	return Value{Num: v}
}

// StrValue creates a categorical observation
func StrValue(s string) Value {
	return Value{Str: s}
}

// MissingValue creates a missing observation
func MissingValue() Value {
	return Value{Missing: true}
}

// SubjectRecord is one trial subject: arm assignment, enrollment time,
// and the subject's observed variable values. Records are immutable
// once ingested; summarization never writes through them.
type SubjectRecord struct {
	SubjectID  core.SubjectID             `json:"subject_id"`
	Group      string                     `json:"group"`
	EnrolledAt core.Timestamp             `json:"enrolled_at,omitzero"`
	Values     map[core.VariableKey]Value `json:"values"`
}

// Value returns the subject's observation for key. Absent keys read
// as missing.
func (r SubjectRecord) Value(key core.VariableKey) Value {
	v, ok := r.Values[key]
	if !ok {
		return MissingValue()
	}
	return v
}

// Groups returns the distinct arm labels in first-appearance order.
func Groups(records []SubjectRecord) []string {
	seen := make(map[string]bool)
	groups := make([]string, 0, 4)
	for _, r := range records {
		if !seen[r.Group] {
			seen[r.Group] = true
			groups = append(groups, r.Group)
		}
	}
	return groups
}

// GroupTotals returns the total record count per arm.
func GroupTotals(records []SubjectRecord) map[string]int {
	totals := make(map[string]int)
	for _, r := range records {
		totals[r.Group]++
	}
	return totals
}
