package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
)

type Extractor struct {
	cfg    Config
	runner Runner
	engine Engine
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the command runner used for pdftoppm and the CLI engine.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithEngine bypasses the engine registry.
func WithEngine(eng Engine) Option {
	return func(e *Extractor) { e.engine = eng }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{cfg: cfg.withDefaults(), runner: execRunner{}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	if e.engine == nil {
		eng, err := newEngine(e.cfg, e.runner, logger)
		if err != nil {
			return nil, err
		}
		e.engine = eng
	}
	return e, nil
}

// Extract picks a strategy based on file extension. PDFs are reduced to
// their first page; TXT files are taken as already-recognised text.
func (e *Extractor) Extract(ctx context.Context, path string, opts Options) (ExtractionResult, error) {
	start := time.Now()
	if opts.Mode == "" {
		opts.Mode = constants.ModeAuto
	}
	if opts.Lang == "" {
		opts.Lang = e.cfg.Lang
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	format := constants.MapExtToFormat(ext)
	e.logger.Debug("starting ocr extraction", "path", path, "mode", opts.Mode, "ext", ext, "engine", e.engine.Name())

	var (
		res ExtractionResult
		err error
	)
	if format != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return ExtractionResult{}, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
	}
	switch format {
	case constants.TXT:
		res, err = e.readText(path)
	case constants.PDF, constants.IMAGE:
		res, err = e.recognizeFile(ctx, path, format, opts)
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("%w: %q", common.ErrUnsupported, ext)
	}
	res.SourceType = format
	res.Mode = opts.Mode
	res.Language = opts.Lang
	res.Duration = time.Since(start)
	return res, err
}

func (e *Extractor) readText(path string) (ExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("read text: %w", err)
	}
	text := string(b)
	return ExtractionResult{
		Text:      text,
		Pages:     1,
		Method:    "text",
		WordCount: len(strings.Fields(text)),
	}, nil
}

func (e *Extractor) recognizeFile(ctx context.Context, path, format string, opts Options) (ExtractionResult, error) {
	if e.cfg.ArtifactCacheDir != "" {
		if err := os.MkdirAll(e.cfg.ArtifactCacheDir, 0o755); err != nil {
			return ExtractionResult{}, fmt.Errorf("artifact dir: %w", err)
		}
	}
	tmpDir, err := os.MkdirTemp(e.cfg.ArtifactCacheDir, "ocr-*")
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	res := ExtractionResult{Pages: 1, Method: "image-ocr"}
	img := path
	if format == constants.PDF {
		res.Method = "pdf-ocr"
		if img, err = e.rasterizeFirstPage(ctx, path, tmpDir); err != nil {
			return res, err
		}
	}

	profile := ProfileFor(opts.Mode)
	if e.cfg.Preprocess {
		prepped := filepath.Join(tmpDir, "preprocessed.png")
		if perr := profile.Preprocess(img, prepped); perr != nil {
			e.logger.Warn("preprocess failed; using original image", "path", img, "error", perr)
			res.Warnings = append(res.Warnings, "preprocess: "+perr.Error())
		} else {
			img = prepped
		}
	}

	rec, err := e.engine.Recognize(ctx, img, Params{
		Lang:        opts.Lang,
		PSM:         profile.PSM,
		OEM:         e.cfg.OEM,
		TessdataDir: e.cfg.TessdataDir,
	})
	if err != nil {
		return res, err
	}
	res.Text = rec.Text
	res.Confidence = rec.Confidence
	res.WordCount = rec.WordCount
	return res, nil
}

// rasterizeFirstPage renders page 1 of a PDF to a PNG inside dir.
func (e *Extractor) rasterizeFirstPage(ctx context.Context, path, dir string) (string, error) {
	prefix := filepath.Join(dir, "page")
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, e.logger,
		"-r", strconv.Itoa(e.cfg.DPI), "-f", "1", "-l", "1", "-singlefile", "-png", path, prefix)
	if err != nil {
		return "", commandError("pdftoppm", err, errb)
	}
	out := prefix + ".png"
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%w: pdf has no pages or could not be read: %w", common.ErrOCR, err)
	}
	return out, nil
}
