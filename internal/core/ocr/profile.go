package ocr

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/ocr-fields/constants"
)

// Profile is the preprocessing recipe and page segmentation for one mode.
// Contrast is an imaging percentage (factor 1.5 => 50, capped at 100);
// Sharpen is a gaussian sigma, 0 meaning no sharpening.
type Profile struct {
	Mode     constants.Mode
	PSM      int
	Contrast float64
	Sharpen  float64
}

var profiles = map[constants.Mode]Profile{
	constants.ModeAuto:        {Mode: constants.ModeAuto, PSM: 3, Contrast: 50},
	constants.ModeReceipt:     {Mode: constants.ModeReceipt, PSM: 6, Contrast: 100, Sharpen: 1.0},
	constants.ModeInvoice:     {Mode: constants.ModeInvoice, PSM: 6, Contrast: 100, Sharpen: 0.5},
	constants.ModeHandwritten: {Mode: constants.ModeHandwritten, PSM: 13, Sharpen: 1.0},
}

// ProfileFor returns the profile of mode; unknown modes get the auto profile.
func ProfileFor(mode constants.Mode) Profile {
	if p, ok := profiles[mode]; ok {
		return p
	}
	return profiles[constants.ModeAuto]
}

// Preprocess writes a grayscale, contrast-adjusted and sharpened copy of src to dst.
func (p Profile) Preprocess(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	out := imaging.Grayscale(img)
	if p.Contrast != 0 {
		out = imaging.AdjustContrast(out, p.Contrast)
	}
	if p.Sharpen > 0 {
		out = imaging.Sharpen(out, p.Sharpen)
	}
	if err := imaging.Save(out, dst); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}
