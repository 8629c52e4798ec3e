// Package prompt builds the single instruction block sent to the generative model.
package prompt

import "strings"

const header = `You are an experienced dream analyst. Analyze the dream described in the
DREAM section below and answer with a single JSON object. Do not wrap the JSON in
code fences, do not add commentary, markdown, or any text outside the JSON object.

Classification rules:
- Reject the input only when it is near-empty, a greeting with no content, or has no
  narrative context at all. When in doubt, prefer "diagnosable but thin" over
  rejection and ask follow-up questions instead.

Analysis procedure (follow conceptually, in order):
1. Extract observable facts from the narrative, interpretation-free.
2. Extract the emotions present or implied.
3. Extract dream symbols and candidate meanings for each.
4. Read the dream from multiple psychological perspectives.
5. Synthesize interpretations ordered by confidence, each with a confidence score in
   [0,1] and the evidence supporting it. Confidence values are independent estimates.
6. Derive short, actionable advice and 1-3 concrete next actions.

Output exactly one of these three shapes:

1. Full diagnosis:
{"isDiagnosable": true, "needsMoreInfo": false, "title": "...", "keywords": ["..."],
 "facts": ["..."], "emotions": ["..."],
 "symbols": [{"symbol": "...", "meaningCandidates": ["..."]}],
 "interpretations": [{"summary": "...", "confidence": 0.0, "evidence": ["..."]}],
 "advice": "...", "nextActions": ["..."]}

2. Diagnosable but thin, more information needed (include the same tentative analysis
   fields as shape 1, plus at most 3 follow-up questions):
{"isDiagnosable": true, "needsMoreInfo": true,
 "missingInfoQuestions": [{"question": "...", "options": ["..."]}], ...tentative fields...}

3. Not a dream narrative:
{"isDiagnosable": false, "errorReason": "..."}

DREAM:
-----BEGIN DREAM-----
`

const footer = `
-----END DREAM-----`

// Build maps dream text to the model instruction. Pure and deterministic: identical
// input always yields an identical prompt, and the dream text appears verbatim
// between the BEGIN/END markers.
func Build(dreamText string) string {
	var b strings.Builder
	b.Grow(len(header) + len(dreamText) + len(footer))
	b.WriteString(header)
	b.WriteString(dreamText)
	b.WriteString(footer)
	return b.String()
}
