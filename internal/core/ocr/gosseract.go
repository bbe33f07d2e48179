//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/ocr-fields/internal/common"
)

const EngineGosseract = "gosseract"

func init() {
	RegisterEngine(EngineGosseract, func(_ Config, _ Runner, logger *slog.Logger) (Engine, error) {
		return &gosseractEngine{clientFactory: gosseract.NewClient, logger: logger}, nil
	})
}

// gosseractEngine runs tesseract in-process through libtesseract.
// The OCR engine mode is fixed when the library initialises, so Params.OEM is ignored.
type gosseractEngine struct {
	clientFactory func() *gosseract.Client
	logger        *slog.Logger
}

func (e *gosseractEngine) Name() string { return EngineGosseract }

func (e *gosseractEngine) Recognize(ctx context.Context, imagePath string, p Params) (Recognition, error) {
	if err := ctx.Err(); err != nil {
		return Recognition{}, err
	}
	c := e.clientFactory()
	defer c.Close()

	if p.TessdataDir != "" {
		c.TessdataPrefix = p.TessdataDir
	}
	if err := c.SetLanguage(strings.Split(p.Lang, "+")...); err != nil {
		return Recognition{}, fmt.Errorf("%w: set language: %w", common.ErrOCR, err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(p.PSM)); err != nil {
		return Recognition{}, fmt.Errorf("%w: set psm: %w", common.ErrOCR, err)
	}
	if err := c.SetImage(imagePath); err != nil {
		return Recognition{}, fmt.Errorf("%w: set image: %w", common.ErrOCR, err)
	}
	text, err := c.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("%w: recognize text: %w", common.ErrOCR, err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		e.logger.Warn("word boxes unavailable", "path", imagePath, "error", err)
		return Recognition{Text: text}, nil
	}
	var sum float64
	var n, words int
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) != "" {
			words++
		}
		if b.Confidence > 0 {
			sum += math.Trunc(b.Confidence)
			n++
		}
	}
	rec := Recognition{Text: text, WordCount: words}
	if n > 0 {
		rec.Confidence = roundTenth(sum / float64(n))
	}
	return rec, nil
}
