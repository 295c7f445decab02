package explain

import (
	"errors"
	"testing"

	"github.com/adit-wn/teamlane/internal/models"
)

const goodResponse = `{
  "tech_score": 85,
  "disposition_score": 70,
  "experience_score": 60,
  "explanation": {
    "primary_reason": "Strong overlap between Go and Postgres experience and the project stack.",
    "additional_reasons": ["Shared interest in backend infrastructure."],
    "positive_points": ["Go expertise matches the core stack.", "Collaboration style fits a small team."],
    "negative_points": ["No prior experience with Kubernetes."]
  }
}`

func TestParseResponse(t *testing.T) {
	res, err := parseResponse(goodResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TechScore != 85 || res.DispositionScore != 70 || res.ExperienceScore != 60 {
		t.Fatalf("unexpected scores: %d %d %d", res.TechScore, res.DispositionScore, res.ExperienceScore)
	}
	if res.Payload.Version != models.ExplanationVersion {
		t.Fatalf("payload version = %d, want %d", res.Payload.Version, models.ExplanationVersion)
	}
	if res.Payload.PrimaryReason == "" || len(res.Payload.AdditionalReasons) != 1 {
		t.Fatalf("unexpected payload: %+v", res.Payload)
	}
	if len(res.Payload.PositivePoints) != 2 || len(res.Payload.NegativePoints) != 1 {
		t.Fatalf("unexpected detail points: %+v", res.Payload)
	}
}

func TestParseResponseCodeFence(t *testing.T) {
	res, err := parseResponse("```json\n" + goodResponse + "\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TechScore != 85 {
		t.Fatalf("tech score = %d, want 85", res.TechScore)
	}
}

func TestParseResponseCoercesStringScores(t *testing.T) {
	res, err := parseResponse(`{
	  "tech_score": "90",
	  "disposition_score": 71.4,
	  "experience_score": 150,
	  "explanation": {"primary_reason": "ok"}
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TechScore != 90 {
		t.Fatalf("tech score = %d, want 90", res.TechScore)
	}
	if res.DispositionScore != 71 {
		t.Fatalf("disposition score = %d, want 71", res.DispositionScore)
	}
	if res.ExperienceScore != 100 {
		t.Fatalf("experience score should clamp to 100, got %d", res.ExperienceScore)
	}
}

func TestParseResponseMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the match looks great!"},
		{"truncated", `{"tech_score": 85, "explanation": {`},
		{"missing primary reason", `{"tech_score": 85, "explanation": {"primary_reason": "  "}}`},
		{"non numeric score", `{"tech_score": "high", "explanation": {"primary_reason": "ok"}}`},
	}

	for _, tc := range cases {
		if _, err := parseResponse(tc.raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", tc.name, err)
		}
	}
}
