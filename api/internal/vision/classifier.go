package vision

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Classifier answers one task prompt about one image through an Engine.
type Classifier struct {
	engine    Engine
	tasks     map[TaskType]TaskSpec
	maxSide   int
	promptDir string
	log       *zap.Logger
}

type Option func(*Classifier)

func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMaxImageSide downsizes images whose longest side exceeds n pixels.
func WithMaxImageSide(n int) Option {
	return func(c *Classifier) { c.maxSide = n }
}

// WithPromptDir lets <dir>/<task>.txt replace the built-in prompt of a task.
func WithPromptDir(dir string) Option {
	return func(c *Classifier) { c.promptDir = dir }
}

func NewClassifier(engine Engine, opts ...Option) (*Classifier, error) {
	if engine == nil {
		return nil, fmt.Errorf("classifier: engine is nil")
	}
	c := &Classifier{engine: engine, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	tasks, err := loadPromptOverrides(c.promptDir)
	if err != nil {
		return nil, err
	}
	c.tasks = tasks
	return c, nil
}

func (c *Classifier) EngineName() string  { return c.engine.Name() }
func (c *Classifier) EngineModel() string { return c.engine.GetModel() }

// Task returns the spec the classifier uses for t, prompt overrides included.
func (c *Classifier) Task(t TaskType) (TaskSpec, error) {
	return lookupIn(c.tasks, t)
}

// Classify sends the image at imagePath to the engine with the prompt and
// schema of task and returns the typed result.
func (c *Classifier) Classify(ctx context.Context, imagePath string, task TaskType) (Result, error) {
	spec, err := c.Task(task)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, mime, err := prepareImage(data, c.maxSide)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := c.engine.Generate(ctx, Request{
		Prompt:     spec.Prompt,
		SchemaName: spec.SchemaName,
		Schema:     spec.Schema,
		Image:      img,
		MIME:       mime,
	})
	log := c.log.With(
		zap.String("task", string(task)),
		zap.String("engine", c.engine.Name()),
		zap.String("model", c.engine.GetModel()),
		zap.Int("image_bytes", len(img)),
		zap.Duration("took", time.Since(start)),
	)
	if err != nil {
		log.Warn("model call failed", zap.Error(err))
		return nil, &ExternalServiceError{Engine: c.engine.Name(), Err: err}
	}

	res, err := spec.Decode(raw)
	if err != nil {
		log.Warn("model answer rejected", zap.Error(err), zap.Int("answer_bytes", len(raw)))
		return nil, &ExternalServiceError{Engine: c.engine.Name(), Err: err}
	}
	log.Info("classified", zap.Int("guess", res.Guess()))
	return res, nil
}
