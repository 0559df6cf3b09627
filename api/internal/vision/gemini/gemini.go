package gemini

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"health-vision/api/internal/util"
	"health-vision/api/internal/vision"
)

var _ vision.Engine = (*Engine)(nil)

type Engine struct {
	APIKey string
	Model  string
	log    *zap.Logger
	opts   []option.ClientOption
}

func New(apiKey, model string, log *zap.Logger, opts ...option.ClientOption) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
		log:    log,
		opts:   opts,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Generate(ctx context.Context, in vision.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	if len(in.Image) == 0 {
		return "", fmt.Errorf("gemini %s: empty image", in.SchemaName)
	}

	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.opts...)...)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(in.Schema),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text("You analyse photos for a health diary app. Answer only with JSON that matches the response schema."),
		},
	}

	mime := util.PickMIME(in.MIME, in.Image)
	resp, err := m.GenerateContent(ctx,
		genai.Text(in.Prompt),
		genai.Blob{MIMEType: mime, Data: in.Image},
	)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", in.SchemaName, err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", fmt.Errorf("gemini %s: empty response", in.SchemaName)
	}
	if resp.UsageMetadata != nil {
		e.log.Debug("gemini answer",
			zap.String("schema", in.SchemaName),
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("candidate_tokens", resp.UsageMetadata.CandidatesTokenCount),
		)
	}
	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && strings.TrimSpace(string(t)) != "" {
				return string(t)
			}
		}
	}
	return ""
}

// toSchema converts a JSON-schema map into the OpenAPI subset Gemini takes.
// Unsupported keywords (additionalProperties, $schema) are dropped.
func toSchema(node map[string]any) *genai.Schema {
	if node == nil {
		return nil
	}
	s := &genai.Schema{}
	switch t, _ := node["type"].(string); t {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	}
	if d, ok := node["description"].(string); ok {
		s.Description = d
	}
	if enum, ok := node["enum"].([]any); ok {
		for _, v := range enum {
			if str, ok := v.(string); ok {
				s.Enum = append(s.Enum, str)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		s.Items = toSchema(items)
	}
	if props, ok := node["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for k, v := range props {
			if pm, ok := v.(map[string]any); ok {
				s.Properties[k] = toSchema(pm)
			}
		}
	}
	if req, ok := node["required"].([]any); ok {
		for _, v := range req {
			if str, ok := v.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
		sort.Strings(s.Required)
	}
	return s
}

func ptrFloat32(v float32) *float32 { return &v }
