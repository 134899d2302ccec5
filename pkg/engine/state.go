package engine

import "github.com/goliatone/go-formclient/pkg/model"

// Status is the coarse state of the engine.
type Status int

const (
	// StatusLoading is the initial status, before the schema arrives.
	StatusLoading Status = iota
	// StatusError means the schema could not be loaded; only Reload leaves it.
	StatusError
	// StatusInSection means a section is active and editable.
	StatusInSection
	// StatusSubmitted means the last section validated and values were handed
	// off. Advance and Retreat no longer apply.
	StatusSubmitted
	// StatusExited means the flow left for the login entry point.
	StatusExited
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusInSection:
		return "in-section"
	case StatusSubmitted:
		return "submitted"
	case StatusExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the engine state at one point in time.
type Snapshot struct {
	Status       Status
	Schema       model.FormSchema
	SectionIndex int
	SectionCount int
	Values       model.Values
	Errors       model.ErrorMap
	LoadError    string
}

// CurrentSection returns the active section.
func (s Snapshot) CurrentSection() (model.FormSection, bool) {
	if s.Status != StatusInSection {
		return model.FormSection{}, false
	}
	return s.Schema.Section(s.SectionIndex)
}

// IsLastSection reports whether advancing would submit.
func (s Snapshot) IsLastSection() bool {
	return s.SectionCount > 0 && s.SectionIndex == s.SectionCount-1
}

// CanRetreat reports whether a previous section exists.
func (s Snapshot) CanRetreat() bool {
	return s.Status == StatusInSection && s.SectionIndex > 0
}

// Progress describes the position within the form.
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Progress returns the 1-based section position and the share of sections
// reached, counting the active one.
func (s Snapshot) Progress() Progress {
	if s.SectionCount == 0 {
		return Progress{}
	}
	current := s.SectionIndex + 1
	return Progress{
		Current: current,
		Total:   s.SectionCount,
		Percent: float64(current) / float64(s.SectionCount) * 100,
	}
}
