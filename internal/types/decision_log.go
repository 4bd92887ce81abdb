package types

// Data sources a resume item can come from.
const (
	SourceResume = "resume"
	SourceGitHub = "github"
	SourceBoth   = "both"
)

// Decision log actions.
const (
	ActionIncluded   = "included"
	ActionExcluded   = "excluded"
	ActionMerged     = "merged"
	ActionNormalized = "normalized"
)

// Decision log confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Sources lists the closed vocabulary for project and decision sources.
var Sources = []string{SourceResume, SourceGitHub, SourceBoth}

// Actions lists the closed vocabulary for decision log actions.
var Actions = []string{ActionIncluded, ActionExcluded, ActionMerged, ActionNormalized}

// Confidences lists the closed vocabulary for decision log confidence.
var Confidences = []string{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

// DecisionLogEntry explains one inclusion, exclusion, merge or normalization.
type DecisionLogEntry struct {
	Section    string   `json:"section"`
	Action     string   `json:"action"`
	Items      []string `json:"items"`
	Reason     string   `json:"reason"`
	Source     string   `json:"source"`
	Confidence string   `json:"confidence"`
}
