package globeengine

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// captureFrame writes the finished frame to FrameCaptureDir as a PNG. The
// pixels are copied before encoding moves to its own goroutine.
func (e *Engine) captureFrame(img *ebiten.Image, suffix string) {
	if err := os.MkdirAll(e.FrameCaptureDir, 0o755); err != nil {
		e.log.Error().Err(err).Msg("creating capture directory")
		return
	}
	path := filepath.Join(e.FrameCaptureDir, captureName(time.Now(), suffix))

	rgba := image.NewRGBA(img.Bounds())
	img.ReadPixels(rgba.Pix)

	go func() {
		if err := writePNG(path, rgba); err != nil {
			e.log.Error().Err(err).Str("file", path).Msg("capturing frame")
			return
		}
		e.log.Debug().Str("file", path).Msg("captured frame")
	}()
}

func captureName(ts time.Time, suffix string) string {
	return fmt.Sprintf("globe-%s-%s.png", ts.Format("20060102-150405"), suffix)
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
