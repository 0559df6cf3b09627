package vision

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"health-vision/api/internal/util"
)

// prepareImage returns bytes the vision APIs accept. Images whose longest
// side exceeds maxSide, or whose format the APIs do not take, are re-encoded
// as JPEG. maxSide <= 0 disables downscaling.
func prepareImage(data []byte, maxSide int) ([]byte, string, error) {
	mime := util.PickMIME("", data)
	if maxSide <= 0 && util.IsModelImageMIME(mime) {
		return data, mime, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	tooBig := maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide)
	if !tooBig && util.IsModelImageMIME(mime) {
		return data, mime, nil
	}
	if tooBig {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), "image/jpeg", nil
}
