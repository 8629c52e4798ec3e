// Package normalize turns raw model text into a typed analysis outcome.
//
// Models wrap JSON payloads in markdown code fences often enough that stripping the
// wrapping here keeps the orchestrator free of text-cleaning concerns. Beyond the
// structural parse and shape tagging, no semantic validation happens here.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
)

// Kind tags which of the three contract shapes the model returned.
type Kind int

const (
	// KindRejection: isDiagnosable=false, only errorReason is meaningful.
	KindRejection Kind = iota
	// KindNeedsMoreInfo: diagnosable but thin; tentative fields plus questions.
	KindNeedsMoreInfo
	// KindFullResult: a complete diagnosis.
	KindFullResult
)

// Outcome is the tagged union produced from one raw model response. Downstream
// branching switches on Kind instead of re-checking JSON fields.
type Outcome struct {
	Kind   Kind
	Result model.AnalysisResult
}

// maxQuestions caps the follow-up questions carried forward from the model.
const maxQuestions = 3

// Normalize strips code-fence wrapping artifacts from raw model text, parses the
// remainder as a JSON object, and tags the result with its contract shape.
// Returns model.ErrMalformedResponse when the text does not parse into an object or
// violates the shape contract (needsMoreInfo without questions).
func Normalize(raw string) (*Outcome, error) {
	cleaned := stripFences(raw)

	if !strings.HasPrefix(cleaned, "{") {
		return nil, fmt.Errorf("%w: not a JSON object", model.ErrMalformedResponse)
	}

	var res model.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}

	switch {
	case !res.IsDiagnosable:
		return &Outcome{Kind: KindRejection, Result: res}, nil
	case res.NeedsMoreInfo:
		if len(res.MissingInfoQuestions) == 0 {
			return nil, fmt.Errorf("%w: needsMoreInfo without questions", model.ErrMalformedResponse)
		}
		if len(res.MissingInfoQuestions) > maxQuestions {
			res.MissingInfoQuestions = res.MissingInfoQuestions[:maxQuestions]
		}
		return &Outcome{Kind: KindNeedsMoreInfo, Result: res}, nil
	default:
		return &Outcome{Kind: KindFullResult, Result: res}, nil
	}
}

// stripFences removes a leading ```/```json line and a trailing ``` line, plus
// surrounding whitespace. Text without fences passes through untouched.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
