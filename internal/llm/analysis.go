// Package llm - analysis.go implements the candidate/job match analysis call
// and its strict, defaulting response parser.
package llm

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/match-engine/internal/scoring"
)

// MatchAnalysis is the structured result of the model's candidate/job
// comparison. Every field is always populated: missing or malformed fields in
// the raw response are replaced with safe defaults, never propagated.
type MatchAnalysis struct {
	SkillScore        int
	ExperienceScore   int
	Summary           string
	Recommendation    scoring.Recommendation
	Strengths         []string
	Concerns          []string
	SkillsFound       []string
	SkillsMissing     []string
	ExperienceDetails string
}

// analysisSchema types each expected field. Validation failures identify
// malformed fields so the parser can drop them and fill defaults instead of
// trusting the response shape at the call site.
const analysisSchema = `{
	"type": "object",
	"properties": {
		"skill_score":        {"type": "number"},
		"experience_score":   {"type": "number"},
		"summary":            {"type": "string"},
		"recommendation":     {"type": "string"},
		"strengths":          {"type": "array", "items": {"type": "string"}},
		"concerns":           {"type": "array", "items": {"type": "string"}},
		"skills_found":       {"type": "array", "items": {"type": "string"}},
		"skills_missing":     {"type": "array", "items": {"type": "string"}},
		"experience_details": {"type": "string"}
	}
}`

// analysisWire mirrors the JSON contract requested from the model.
type analysisWire struct {
	SkillScore        *float64 `json:"skill_score"`
	ExperienceScore   *float64 `json:"experience_score"`
	Summary           string   `json:"summary"`
	Recommendation    string   `json:"recommendation"`
	Strengths         []string `json:"strengths"`
	Concerns          []string `json:"concerns"`
	SkillsFound       []string `json:"skills_found"`
	SkillsMissing     []string `json:"skills_missing"`
	ExperienceDetails string   `json:"experience_details"`
}

// Analyze runs the match analysis prompt against the model and parses the
// response. A failed call or unparsable response returns an
// *ExternalServiceError; the caller fails only the application being scored.
func Analyze(ctx context.Context, client Client, candidateText, jobText string) (*MatchAnalysis, error) {
	raw, err := client.GenerateJSON(ctx, BuildMatchPrompt(candidateText, jobText))
	if err != nil {
		return nil, err
	}
	return ParseMatchAnalysis(raw)
}

// BuildMatchPrompt constructs the fixed instruction contract for the analysis
// call. The scoring guidance is deliberately generous: transferable skills and
// relevant industry experience count, not just exact keyword overlap.
func BuildMatchPrompt(candidateText, jobText string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert technical recruiter evaluating how well a candidate matches a job posting.\n\n")

	sb.WriteString("Scoring guidance:\n")
	sb.WriteString("- Be generous: reward transferable skills and relevant industry experience, not just exact keyword overlap.\n")
	sb.WriteString("- Most qualified candidates should score in the 70-95 range.\n")
	sb.WriteString("- Reserve scores below 40 for candidates with no relevant background at all.\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	sb.WriteString("  \"skill_score\": int,          // 0-100, how well the candidate's skills fit the requirements\n")
	sb.WriteString("  \"experience_score\": int,     // 0-100, depth and relevance of work experience\n")
	sb.WriteString("  \"summary\": \"string\",         // 2-3 sentence assessment of the match\n")
	sb.WriteString("  \"recommendation\": \"string\",  // one of: strong_match, good_match, moderate_match, weak_match, poor_match\n")
	sb.WriteString("  \"strengths\": [\"string\"],     // candidate's strongest points for this role\n")
	sb.WriteString("  \"concerns\": [\"string\"],      // gaps or risks worth flagging\n")
	sb.WriteString("  \"skills_found\": [\"string\"],  // required skills the candidate demonstrates\n")
	sb.WriteString("  \"skills_missing\": [\"string\"],// required skills not evidenced\n")
	sb.WriteString("  \"experience_details\": \"string\" // brief note on how the experience maps to the role\n")
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Candidate:\n\"\"\"\n")
	sb.WriteString(candidateText)
	sb.WriteString("\n\"\"\"\n\n")

	sb.WriteString("Job posting:\n\"\"\"\n")
	sb.WriteString(jobText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ParseMatchAnalysis validates and normalizes a raw model response.
// Markdown fences are stripped, scores are clamped into [0,100], malformed
// fields are dropped in favor of defaults, and an unknown recommendation
// becomes moderate_match. Content that is not a JSON object at all yields an
// *ExternalServiceError.
func ParseMatchAnalysis(raw string) (*MatchAnalysis, error) {
	cleaned := CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ExternalServiceError{Service: "gemini", Reason: "empty analysis response"}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &ExternalServiceError{Service: "gemini", Reason: "analysis response is not a JSON object", Cause: err}
	}

	dropMalformedFields(fields)

	// Re-marshal the surviving fields into the wire struct. The round trip
	// cannot fail after schema validation, but keep the error paths honest.
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, &ExternalServiceError{Service: "gemini", Reason: "failed to normalize analysis response", Cause: err}
	}
	var wire analysisWire
	if err := json.Unmarshal(normalized, &wire); err != nil {
		return nil, &ExternalServiceError{Service: "gemini", Reason: "failed to decode analysis response", Cause: err}
	}

	analysis := &MatchAnalysis{
		SkillScore:        clampScorePtr(wire.SkillScore),
		ExperienceScore:   clampScorePtr(wire.ExperienceScore),
		Summary:           wire.Summary,
		Recommendation:    scoring.NormalizeRecommendation(wire.Recommendation),
		Strengths:         orEmpty(wire.Strengths),
		Concerns:          orEmpty(wire.Concerns),
		SkillsFound:       orEmpty(wire.SkillsFound),
		SkillsMissing:     orEmpty(wire.SkillsMissing),
		ExperienceDetails: wire.ExperienceDetails,
	}
	return analysis, nil
}

// dropMalformedFields removes any top-level field that fails schema
// validation, so defaults apply in its place.
func dropMalformedFields(fields map[string]any) {
	schema := gojsonschema.NewStringLoader(analysisSchema)
	document := gojsonschema.NewGoLoader(fields)

	result, err := gojsonschema.Validate(schema, document)
	if err != nil || result.Valid() {
		return
	}

	for _, fieldErr := range result.Errors() {
		name := fieldErr.Field()
		// Nested errors (e.g. "strengths.1") invalidate the whole field.
		if idx := strings.Index(name, "."); idx >= 0 {
			name = name[:idx]
		}
		if name == "(root)" {
			continue
		}
		delete(fields, name)
	}
}

func clampScorePtr(v *float64) int {
	if v == nil {
		return 0
	}
	return scoring.ClampScore(int(math.Round(*v)))
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
