package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-vision/api/internal/vision"
)

func TestToSchema_Food(t *testing.T) {
	spec, err := vision.Lookup(vision.TaskFood)
	require.NoError(t, err)

	s := toSchema(spec.Schema)
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"foods"}, s.Required)

	foods := s.Properties["foods"]
	require.NotNil(t, foods)
	assert.Equal(t, genai.TypeArray, foods.Type)

	item := foods.Items
	require.NotNil(t, item)
	assert.Equal(t, genai.TypeObject, item.Type)
	assert.Equal(t, []string{"carbohydrates", "fat", "name", "protein", "sodium"}, item.Required)
	assert.Equal(t, genai.TypeString, item.Properties["name"].Type)
	assert.Equal(t, genai.TypeInteger, item.Properties["sodium"].Type)
	assert.Equal(t, "milligrams", item.Properties["sodium"].Description)
}

func TestToSchema_BoolAndEnum(t *testing.T) {
	s := toSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isDetected": map[string]any{"type": "boolean"},
			"unit":       map[string]any{"type": "string", "enum": []any{"mg/dL", "mmol/L"}},
		},
	})
	assert.Equal(t, genai.TypeBoolean, s.Properties["isDetected"].Type)
	assert.Equal(t, []string{"mg/dL", "mmol/L"}, s.Properties["unit"].Enum)
	assert.Nil(t, toSchema(nil))
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "", firstText(nil))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("  "), genai.Text(`{"present":false}`)}}},
		},
	}
	assert.Equal(t, `{"present":false}`, firstText(resp))
}

func TestGenerate_MissingKey(t *testing.T) {
	e := New("  ", "gemini-2.5-flash", nil)
	_, err := e.Generate(context.Background(), vision.Request{Image: []byte{1}})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
	assert.Equal(t, "gemini", e.Name())
	assert.Equal(t, "gemini-2.5-flash", e.GetModel())
}
