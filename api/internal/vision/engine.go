package vision

import (
	"context"
	"errors"
)

// Request is one structured-output call: a prompt, an image and the schema
// the answer must follow.
type Request struct {
	Prompt     string
	SchemaName string
	Schema     map[string]any
	Image      []byte
	MIME       string
}

type Engine interface {
	Name() string
	GetModel() string
	// Generate returns the raw JSON text produced by the model.
	Generate(ctx context.Context, req Request) (string, error)
}

type Engines struct {
	OpenAI Engine
	Gemini Engine
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	switch llmName {
	case "gpt", "openai":
		if e.OpenAI == nil {
			return nil, errors.New("gpt engine is not configured")
		}
		return e.OpenAI, nil
	case "gemini":
		if e.Gemini == nil {
			return nil, errors.New("gemini engine is not configured")
		}
		return e.Gemini, nil
	default:
		return nil, errors.New("unknown llm_name; use 'gpt' or 'gemini'")
	}
}
