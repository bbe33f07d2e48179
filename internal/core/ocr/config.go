package ocr

import (
	"time"

	"github.com/joseph-ayodele/ocr-fields/constants"
)

type Config struct {
	Engine    string // "cli" (default) or "gosseract" when built with that tag
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	Lang        string // default "eng"
	DPI         int    // PDF rasterization DPI, default 200
	OEM         int    // default 3
	TessdataDir string

	// ArtifactCacheDir is the parent of per-call temporary directories; empty uses os.TempDir.
	ArtifactCacheDir string
	Preprocess       bool
}

func (c Config) withDefaults() Config {
	if c.Engine == "" {
		c.Engine = EngineCLI
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Lang == "" {
		c.Lang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 200
	}
	if c.OEM <= 0 {
		c.OEM = 3
	}
	return c
}

// Options are per-call overrides; zero values fall back to the Config.
type Options struct {
	Mode constants.Mode
	Lang string
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Method     string // "pdf-ocr" | "image-ocr" | "text"
	Mode       constants.Mode
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float64 // mean word confidence, 0..100
	WordCount  int
}
