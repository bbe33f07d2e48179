package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joseph-ayodele/ocr-fields/internal/common"
)

const EngineCLI = "cli"

// Params are the recognition settings for one image.
type Params struct {
	Lang        string
	PSM         int
	OEM         int
	TessdataDir string
}

// Recognition is what an engine reports for one image.
type Recognition struct {
	Text       string
	Confidence float64 // mean of positive word confidences, one decimal; 0 when none
	WordCount  int
}

// Engine turns an image file into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string, p Params) (Recognition, error)
}

// EngineFactory builds an engine for the given configuration.
type EngineFactory func(cfg Config, r Runner, logger *slog.Logger) (Engine, error)

var (
	enginesMu sync.RWMutex
	engines   = map[string]EngineFactory{
		EngineCLI: func(cfg Config, r Runner, logger *slog.Logger) (Engine, error) {
			return &cliEngine{bin: cfg.Tesseract, runner: r, logger: logger}, nil
		},
	}
)

// RegisterEngine makes an engine selectable through Config.Engine.
func RegisterEngine(name string, f EngineFactory) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[name] = f
}

// Engines lists the registered engine names.
func Engines() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	names := make([]string, 0, len(engines))
	for n := range engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newEngine(cfg Config, r Runner, logger *slog.Logger) (Engine, error) {
	enginesMu.RLock()
	f, ok := engines[cfg.Engine]
	enginesMu.RUnlock()
	if !ok {
		return nil, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("unknown ocr engine %q (available: %s)", cfg.Engine, strings.Join(Engines(), ", ")),
			common.ErrInvalidInput)
	}
	return f(cfg, r, logger)
}

// cliEngine shells out to tesseract: once for plain text, once for TSV word data.
type cliEngine struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

func (e *cliEngine) Name() string { return EngineCLI }

func (e *cliEngine) Recognize(ctx context.Context, imagePath string, p Params) (Recognition, error) {
	args := []string{imagePath, "stdout", "-l", p.Lang, "--psm", strconv.Itoa(p.PSM), "--oem", strconv.Itoa(p.OEM)}
	if p.TessdataDir != "" {
		args = append(args, "--tessdata-dir", p.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.bin, e.logger, args...)
	if err != nil {
		return Recognition{}, commandError("tesseract", err, errb)
	}
	tsv, errb, err := e.runner.Run(ctx, e.bin, e.logger, append(args, "tsv")...)
	if err != nil {
		return Recognition{}, commandError("tesseract tsv", err, errb)
	}

	conf, words := parseTSV(string(tsv))
	return Recognition{Text: string(out), Confidence: conf, WordCount: words}, nil
}

// TSV columns: level page_num block_num par_num line_num word_num left top width height conf text
const (
	tsvConfCol = 10
	tsvTextCol = 11
)

// parseTSV returns the mean of the positive word confidences (each truncated
// to an integer, mean rounded to one decimal) and the number of non-blank words.
func parseTSV(tsv string) (float64, int) {
	var sum float64
	var n, words int
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) <= tsvTextCol {
			continue
		}
		if strings.TrimSpace(cols[tsvTextCol]) != "" {
			words++
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(cols[tsvConfCol]), 64)
		if err != nil || c <= 0 {
			continue
		}
		sum += math.Trunc(c)
		n++
	}
	if n == 0 {
		return 0, words
	}
	return roundTenth(sum / float64(n)), words
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
