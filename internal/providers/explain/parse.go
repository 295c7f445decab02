package explain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/adit-wn/teamlane/internal/models"
)

// flexInt tolerates models returning scores as numbers, floats or numeric
// strings. Anything else fails the decode.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("score %q is not numeric", s)
	}
	*f = flexInt(v)
	return nil
}

type rawResponse struct {
	TechScore        flexInt `json:"tech_score"`
	DispositionScore flexInt `json:"disposition_score"`
	ExperienceScore  flexInt `json:"experience_score"`
	Explanation      struct {
		PrimaryReason     string   `json:"primary_reason"`
		AdditionalReasons []string `json:"additional_reasons"`
		PositivePoints    []string `json:"positive_points"`
		NegativePoints    []string `json:"negative_points"`
	} `json:"explanation"`
}

// parseResponse decodes the model output into a Result. The payload is
// stamped with the current schema version at this boundary.
func parseResponse(raw string) (*Result, error) {
	cleaned := stripFences(raw)

	var r rawResponse
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(r.Explanation.PrimaryReason) == "" {
		return nil, fmt.Errorf("%w: missing primary_reason", ErrMalformed)
	}

	return &Result{
		TechScore:        clampScore(int(r.TechScore)),
		DispositionScore: clampScore(int(r.DispositionScore)),
		ExperienceScore:  clampScore(int(r.ExperienceScore)),
		Payload: models.ExplanationPayload{
			Version:           models.ExplanationVersion,
			PrimaryReason:     strings.TrimSpace(r.Explanation.PrimaryReason),
			AdditionalReasons: trimAll(r.Explanation.AdditionalReasons),
			PositivePoints:    trimAll(r.Explanation.PositivePoints),
			NegativePoints:    trimAll(r.Explanation.NegativePoints),
		},
	}, nil
}

// stripFences removes a markdown code fence the model may wrap around the
// JSON body despite the JSON response mime type.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
