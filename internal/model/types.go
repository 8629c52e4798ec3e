package model

import (
	"encoding/json"
	"time"
)

// MissingInfoQuestion is one follow-up question the model wants answered before it
// commits to a full reading. Options are suggested answers the UI can render as chips.
type MissingInfoQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SymbolReading pairs a dream symbol with its candidate meanings.
type SymbolReading struct {
	Symbol            string   `json:"symbol"`
	MeaningCandidates []string `json:"meaningCandidates"`
}

// Interpretation is one synthesized reading of the dream. Confidence values are
// independent estimates in [0,1], not a distribution; the first interpretation in a
// result is the most confident one.
type Interpretation struct {
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// AnalysisResult is the structured output of one analysis attempt.
//
// When IsDiagnosable is false only ErrorReason is populated. When NeedsMoreInfo is
// true the interpretation fields hold the tentative reading and MissingInfoQuestions
// is non-empty (at most three entries).
type AnalysisResult struct {
	IsDiagnosable        bool                  `json:"isDiagnosable"`
	NeedsMoreInfo        bool                  `json:"needsMoreInfo,omitempty"`
	ErrorReason          string                `json:"errorReason,omitempty"`
	MissingInfoQuestions []MissingInfoQuestion `json:"missingInfoQuestions,omitempty"`
	Title                string                `json:"title,omitempty"`
	Keywords             []string              `json:"keywords,omitempty"`
	Facts                []string              `json:"facts,omitempty"`
	Emotions             []string              `json:"emotions,omitempty"`
	Symbols              []SymbolReading       `json:"symbols,omitempty"`
	Interpretations      []Interpretation      `json:"interpretations,omitempty"`
	Advice               string                `json:"advice,omitempty"`
	NextActions          []string              `json:"nextActions,omitempty"`
}

// StoredDream is the persisted record of a terminal (or provisional) analysis.
// Records are immutable once inserted; a follow-up round creates a new record.
type StoredDream struct {
	DreamID      string          `json:"dreamId"`
	OwnerID      *string         `json:"ownerId,omitempty"`
	Content      string          `json:"content"`
	Result       json.RawMessage `json:"result"`
	ShareToken   string          `json:"shareToken"`
	CreationTime time.Time       `json:"creationTime"`
}

// AnalyzeRequest is the orchestrator input for one analysis round.
// CallerID is empty for anonymous callers; CallerOrigin is always set and is used as
// the rate-limit key when no caller identity is present.
type AnalyzeRequest struct {
	DreamText    string
	CallerID     string
	CallerOrigin string
}

// AnalyzeResponse is the success-shaped orchestrator output. DreamID and ShareToken
// are nil when persistence was skipped (rejections) or failed (degraded success).
type AnalyzeResponse struct {
	AnalysisResult
	DreamID    *string `json:"id"`
	ShareToken *string `json:"shareToken"`
}
