package httpserver

import (
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Options struct {
	CORSOrigins []string
	// AccessLog receives one entry per request. Nil disables access logging.
	AccessLog *zap.Logger
}

// Handler wraps mux with CORS and access logging and adds /healthz.
func Handler(mux *http.ServeMux, opts Options) http.Handler {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	var h http.Handler = c.Handler(mux)
	if opts.AccessLog != nil {
		h = accessLog(opts.AccessLog, h)
	}
	return h
}

func accessLog(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", m.Code),
			zap.Int64("bytes", m.Written),
			zap.Duration("took", m.Duration),
			zap.String("remote", r.RemoteAddr),
		}
		switch {
		case m.Code >= 500:
			log.Error("request", fields...)
		case m.Code >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	})
}

// StartHTTP serves h on addr until the listener fails.
func StartHTTP(addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}
