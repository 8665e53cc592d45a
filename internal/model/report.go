package model

import "time"

// Report represents the complete analysis of one post
type Report struct {
	ID            string    `json:"id"`                 // Analysis identifier
	TextSHA256    string    `json:"text_sha256"`        // Digest of the analyzed text (the text itself is not stored)
	AnalyzedAt    time.Time `json:"analyzed_at"`        // When the analysis ran
	ReferenceTime time.Time `json:"reference_time"`     // Base for relative dates
	Entities      Entities  `json:"entities,omitempty"` // Recognizer output

	Result Result `json:"result"` // Sparse category map
	Score  Score  `json:"score"`  // Direct/indirect percentages and breakdown

	LLM *LLMSummary `json:"llm,omitempty"` // Optional explanation (separate, never affects score)
}

// Score represents the transparent scoring breakdown
type Score struct {
	Direct   float64  `json:"direct_percent"`   // Direct identifiability (0-100)
	Indirect int      `json:"indirect_percent"` // Indirect identifiability (0-100)
	Signals  []Signal `json:"signals"`          // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent scoring data (formulas, inputs)
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalDirectIdentifiers   SignalType = "direct_identifiers"   // Weighted sum of direct identifiers
	SignalIndirectIdentifiers SignalType = "indirect_identifiers" // Super-linear quasi-identifier count
	SignalDateDualUse         SignalType = "date_dual_use"        // Dates counted in both scores
	SignalUnresolvedPlaces    SignalType = "unresolved_places"    // Place mentions missing from the gazetteer
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains the optional generated explanation
// CRITICAL: This never affects scoring and is clearly separated
type LLMSummary struct {
	Enabled         bool     `json:"enabled"`
	Provider        string   `json:"provider,omitempty"` // openai, anthropic, ollama
	Model           string   `json:"model,omitempty"`    // Model name
	StrictRedaction bool     `json:"strict_redaction"`   // Whether detected identifiers were masked in the output
	Detail          string   `json:"detail,omitempty"`   // Explanation text
	Cached          bool     `json:"cached,omitempty"`   // Served from the explanation cache
	Warnings        []string `json:"warnings,omitempty"` // Any issues (e.g., identifiers echoed by the model)
}
