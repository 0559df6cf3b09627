package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"health-vision/api/internal/util"
	"health-vision/api/internal/vision"
)

var _ vision.Engine = (*Engine)(nil)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // empty means api.openai.com; set for OpenRouter or a proxy
	Logger  *zap.Logger
}

type Engine struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// loggingTransport traces every upstream call at debug level. Bodies are not
// logged: they carry the base64 image.
type loggingTransport struct {
	base http.RoundTripper
	log  *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int64("request_bytes", req.ContentLength),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		t.log.Debug("openai http error", append(fields, zap.Error(err))...)
		return resp, err
	}
	t.log.Debug("openai http", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	// Timeout=0: the per-request context carries the deadline.
	oc.HTTPClient = &http.Client{Transport: &loggingTransport{base: tr, log: log}}

	return &Engine{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		log:    log,
	}
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.model }

func (e *Engine) Generate(ctx context.Context, in vision.Request) (string, error) {
	if len(in.Image) == 0 {
		return "", fmt.Errorf("openai %s: empty image", in.SchemaName)
	}
	mime := util.PickMIME(in.MIME, in.Image)
	if !util.IsModelImageMIME(mime) {
		return "", fmt.Errorf("openai %s: unsupported MIME %s (need image/jpeg|png|webp)", in.SchemaName, mime)
	}
	schema, err := json.Marshal(in.Schema)
	if err != nil {
		return "", fmt.Errorf("openai %s: schema: %w", in.SchemaName, err)
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You analyse photos for a health diary app. Answer only with JSON that matches the given schema.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: in.Prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    util.MakeDataURL(mime, in.Image),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   in.SchemaName,
				Schema: json.RawMessage(schema),
				Strict: true,
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", in.SchemaName, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai %s: no choices in response", in.SchemaName)
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("openai %s: refused: %s", in.SchemaName, util.Truncate(choice.Message.Refusal, 256))
	}
	out := strings.TrimSpace(choice.Message.Content)
	if out == "" {
		return "", fmt.Errorf("openai %s: empty output (finish_reason=%s)", in.SchemaName, choice.FinishReason)
	}
	e.log.Debug("openai answer",
		zap.String("schema", in.SchemaName),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return out, nil
}
