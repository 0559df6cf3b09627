package handle

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"health-vision/api/internal/vision"
)

// Classify returns the handler for one task: upload → temp file → model →
// guess → JSON. The temp file is removed before the handler returns.
func (h *Handle) Classify(task vision.TaskType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, ok := h.readImage(w, r, true)
		if !ok {
			return
		}

		path, cleanup, err := h.persistTemp(task, up)
		if err != nil {
			h.log.Error("persist upload", zap.String("task", string(task)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		res, err := h.cls.Classify(ctx, path, task)
		if err != nil {
			// Upstream failures are reported as client errors, as the API always did.
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, vision.NewPayload(res))
	}
}
