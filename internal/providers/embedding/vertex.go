package embedding

import (
	"context"
	"fmt"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultEmbeddingModel = "text-embedding-004"

// Vertex produces embeddings through the Vertex AI prediction API against a
// Google publisher embedding model. It is constructed once at startup and
// injected; there is no lazy global handle.
type Vertex struct {
	client   *aiplatform.PredictionClient
	endpoint string
	name     string
	dim      int
}

func NewVertex(ctx context.Context, projectID, location, modelName string, dim int, opts ...option.ClientOption) (*Vertex, error) {
	if modelName == "" {
		modelName = defaultEmbeddingModel
	}
	if dim <= 0 {
		dim = 768
	}

	opts = append([]option.ClientOption{
		option.WithEndpoint(location + "-aiplatform.googleapis.com:443"),
	}, opts...)

	c, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create prediction client: %w", err)
	}

	return &Vertex{
		client:   c,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", projectID, location, modelName),
		name:     modelName,
		dim:      dim,
	}, nil
}

func (v *Vertex) Close() error   { return v.client.Close() }
func (v *Vertex) Dimension() int { return v.dim }
func (v *Vertex) Model() string  { return v.name }

func (v *Vertex) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrUnavailable
	}

	inst, err := structpb.NewStruct(map[string]any{
		"content":   text,
		"task_type": "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("build embed instance: %w", err)
	}

	resp, err := v.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  v.endpoint,
		Instances: []*structpb.Value{structpb.NewStructValue(inst)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.GetPredictions()) == 0 {
		return nil, ErrUnavailable
	}

	return vectorFromPrediction(resp.GetPredictions()[0])
}

// vectorFromPrediction unpacks the publisher embedding model response shape:
// {embeddings: {values: [float, ...]}}.
func vectorFromPrediction(pred *structpb.Value) ([]float32, error) {
	emb := pred.GetStructValue().GetFields()["embeddings"]
	if emb == nil {
		return nil, fmt.Errorf("%w: prediction carries no embeddings field", ErrUnavailable)
	}

	values := emb.GetStructValue().GetFields()["values"].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: prediction carries no embedding values", ErrUnavailable)
	}

	out := make([]float32, len(values))
	for i, val := range values {
		out[i] = float32(val.GetNumberValue())
	}
	return out, nil
}
