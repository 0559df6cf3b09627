package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"health-vision/api/internal/vision"
)

// Classifier is what the image endpoints need from vision.Classifier.
type Classifier interface {
	Classify(ctx context.Context, imagePath string, task vision.TaskType) (vision.Result, error)
	EngineName() string
	EngineModel() string
}

type Options struct {
	TmpDir         string
	MaxUploadBytes int64
	Timeout        time.Duration
	Logger         *zap.Logger
}

type Handle struct {
	cls       Classifier
	tmpDir    string
	maxUpload int64
	timeout   time.Duration
	log       *zap.Logger
}

func New(cls Classifier, opts Options) *Handle {
	h := &Handle{
		cls:       cls,
		tmpDir:    opts.TmpDir,
		maxUpload: opts.MaxUploadBytes,
		timeout:   opts.Timeout,
		log:       opts.Logger,
	}
	if h.tmpDir == "" {
		h.tmpDir = os.TempDir()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 32 << 20
	}
	if h.timeout <= 0 {
		h.timeout = 180 * time.Second
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

// Register mounts every endpoint on mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/hello", h.Hello)
	mux.HandleFunc("POST /api/echo", h.Echo)
	mux.HandleFunc("GET /api/square/{number}", h.Square)
	mux.HandleFunc("POST /api/image-size", h.ImageSize)
	mux.HandleFunc("GET /test", h.Diagnostics)

	mux.HandleFunc("POST /api/food", h.Classify(vision.TaskFood))
	mux.HandleFunc("POST /api/peel", h.Classify(vision.TaskPeel))
	mux.HandleFunc("POST /api/glucose_digit", h.Classify(vision.TaskGlucose))
	mux.HandleFunc("POST /api/sphygmomanometer_digit", h.Classify(vision.TaskSphygmomanometer))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
