package handle

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"health-vision/api/internal/vision"
)

func (h *Handle) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello, World!"})
}

// Echo returns the JSON body under "received". Missing, malformed and
// empty-valued bodies are rejected.
func (h *Handle) Echo(w http.ResponseWriter, r *http.Request) {
	var data any
	dec := json.NewDecoder(io.LimitReader(r.Body, 4<<20))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil || isEmptyJSON(data) {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"received": data})
}

func isEmptyJSON(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

const maxSquareDigits = 4300

// Square returns number and its exact square. Any integer up to
// maxSquareDigits digits is accepted.
func (h *Handle) Square(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("number")
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok || len(strings.TrimLeft(raw, "+-")) > maxSquareDigits {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*big.Int{"number": n, "square": new(big.Int).Mul(n, n)})
}

var reportedModules = []string{
	"github.com/sashabaranov/go-openai",
	"github.com/google/generative-ai-go",
	"github.com/disintegration/imaging",
}

// Diagnostics reports the runtime, the active engine and library versions.
func (h *Handle) Diagnostics(w http.ResponseWriter, r *http.Request) {
	libs := map[string]string{}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, d := range bi.Deps {
			for _, m := range reportedModules {
				if d.Path == m {
					libs[m] = d.Version
				}
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"go_version": runtime.Version(),
		"engine":     h.cls.EngineName(),
		"model":      h.cls.EngineModel(),
		"tasks":      vision.Tasks(),
		"libraries":  libs,
	})
}
