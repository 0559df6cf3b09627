package handle

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"health-vision/api/internal/vision"
)

type upload struct {
	filename string
	data     []byte
	width    int
	height   int
}

// maxImagePixels caps width*height read from the header, before any decode.
const maxImagePixels = 89_478_485

var (
	errNoFile    = errors.New("no file uploaded")
	errEmptyFile = errors.New("empty file")
)

// filePart returns the first "file" part that carries a filename parameter.
// Parts named "file" without one are plain form fields and are skipped.
func filePart(r *http.Request) (string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, errNoFile
	}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return "", nil, errNoFile
		}
		if err != nil {
			return "", nil, err
		}
		if p.FormName() != "file" {
			_ = p.Close()
			continue
		}
		_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
		filename, isFile := params["filename"]
		if err != nil || !isFile {
			_ = p.Close()
			continue
		}
		if filename == "" {
			_ = p.Close()
			return "", nil, errEmptyFile
		}
		data, err := io.ReadAll(p)
		_ = p.Close()
		if err != nil {
			return "", nil, err
		}
		return filename, data, nil
	}
}

// readImage pulls the "file" part from a multipart request and reads the
// image header. With decode set the full image is decoded as well. On
// failure it writes the 4xx response itself.
func (h *Handle) readImage(w http.ResponseWriter, r *http.Request, decode bool) (*upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	filename, data, err := filePart(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, errEmptyFile):
			writeError(w, http.StatusBadRequest, "Empty file")
		default:
			writeError(w, http.StatusBadRequest, "No file uploaded")
		}
		return nil, false
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image file: "+err.Error())
		return nil, false
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid image file: dimensions %dx%d out of range", cfg.Width, cfg.Height))
		return nil, false
	}
	if decode {
		if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid image file: "+err.Error())
			return nil, false
		}
	}
	return &upload{filename: filename, data: data, width: cfg.Width, height: cfg.Height}, true
}

// ImageSize reports the dimensions from the image header only.
func (h *Handle) ImageSize(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readImage(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"width": up.width, "height": up.height})
}

// persistTemp writes the upload to a fresh task-named file in the temp dir.
// The returned cleanup removes it and is safe to call once on every path.
func (h *Handle) persistTemp(task vision.TaskType, up *upload) (string, func(), error) {
	f, err := os.CreateTemp(h.tmpDir, fmt.Sprintf("%s-*%s", task, imageExt(up.filename)))
	if err != nil {
		return "", nil, fmt.Errorf("create temp: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.Warn("temp file not removed", zap.String("path", path), zap.Error(err))
		}
	}
	if _, err := f.Write(up.data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp: %w", err)
	}
	return path, cleanup, nil
}

func imageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 6 {
		return ".img"
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ".img"
		}
	}
	return ext
}
