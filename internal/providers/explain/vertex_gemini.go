package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

const promptTemplate = `You are an assistant that analyzes how well a candidate fits a project and returns JSON only.

A candidate and a project matched with an overall compatibility of {{SCORE}}%. Analyze why.

Scoring dimensions, each an integer from 0 to 100:
1. tech_score: overlap between the candidate's skills and the project's tech stack.
2. disposition_score: fit between the candidate's collaboration style and preferred topics and the project's character.
3. experience_score: relevance of the candidate's background and experience level to the project.

Rationale, split in two views:
- primary_reason: the single most important reason behind the match, one sentence.
- additional_reasons: 1-2 further matching points, one sentence each.
- positive_points: the most important technical factor and the most important non-technical factor that raised the score, grounded in the given data.
- negative_points: 1-2 factors that lowered the score, with concrete advice to improve it.

[Candidate]
{{CANDIDATE_JSON}}

[Project]
{{PROJECT_JSON}}

Respond with exactly this JSON shape and nothing else:
{
  "tech_score": <int>,
  "disposition_score": <int>,
  "experience_score": <int>,
  "explanation": {
    "primary_reason": "<string>",
    "additional_reasons": ["<string>"],
    "positive_points": ["<string>"],
    "negative_points": ["<string>"]
  }
}`

// VertexGemini produces match explanations through a Gemini model on Vertex
// AI, requesting strict JSON output.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
	name   string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, opts ...option.ClientOption) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}

	m := c.GenerativeModel(modelName)
	m.GenerationConfig.ResponseMIMEType = "application/json"
	m.SetTemperature(0.4)

	return &VertexGemini{client: c, model: m, name: modelName}, nil
}

func (v *VertexGemini) Close() error  { return v.client.Close() }
func (v *VertexGemini) Model() string { return v.name }

func (v *VertexGemini) Explain(ctx context.Context, req Request) (*Result, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, err := v.generate(ctx, prompt)
	if err != nil {
		// one bounded retry for transport errors; parse failures below are
		// terminal since regenerating is non-deterministic
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(2 * time.Second):
		}
		if raw, err = v.generate(ctx, prompt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return parseResponse(raw)
}

func (v *VertexGemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("empty response from %s", v.name)
	}
	return out, nil
}

func buildPrompt(req Request) (string, error) {
	candJSON, err := json.MarshalIndent(req.CandidateSummary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate summary: %w", err)
	}
	projJSON, err := json.MarshalIndent(req.ProjectSummary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal project summary: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{SCORE}}", fmt.Sprintf("%.0f", req.OverallScore))
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", string(candJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROJECT_JSON}}", string(projJSON))
	return prompt, nil
}
