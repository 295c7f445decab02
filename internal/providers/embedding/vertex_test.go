package embedding

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func prediction(t *testing.T, m map[string]any) *structpb.Value {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("build prediction: %v", err)
	}
	return structpb.NewStructValue(s)
}

func TestVectorFromPrediction(t *testing.T) {
	pred := prediction(t, map[string]any{
		"embeddings": map[string]any{
			"values":     []any{0.25, -0.5, 1.0},
			"statistics": map[string]any{"token_count": 4},
		},
	})

	vec, err := vectorFromPrediction(pred)
	if err != nil {
		t.Fatalf("vectorFromPrediction: %v", err)
	}
	want := []float32{0.25, -0.5, 1.0}
	if len(vec) != len(want) {
		t.Fatalf("len = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
}

func TestVectorFromPredictionMalformed(t *testing.T) {
	cases := []struct {
		name string
		pred *structpb.Value
	}{
		{"no embeddings field", prediction(t, map[string]any{"content": "x"})},
		{"empty values", prediction(t, map[string]any{
			"embeddings": map[string]any{"values": []any{}},
		})},
		{"not a struct", structpb.NewStringValue("oops")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := vectorFromPrediction(tc.pred); !errors.Is(err, ErrUnavailable) {
				t.Errorf("err = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestVertexEmbedRejectsBlankText(t *testing.T) {
	v := &Vertex{name: defaultEmbeddingModel, dim: 768}
	if _, err := v.Embed(context.Background(), "   "); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
