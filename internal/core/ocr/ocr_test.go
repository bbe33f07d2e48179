package ocr

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
)

type fakeRunner struct {
	calls [][]string
	fn    func(name string, args []string) ([]byte, []byte, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.fn(name, args)
}

type fakeEngine struct {
	gotPath   string
	gotParams Params
	existed   bool
	rec       Recognition
	err       error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, imagePath string, p Params) (Recognition, error) {
	f.gotPath, f.gotParams = imagePath, p
	_, err := os.Stat(imagePath)
	f.existed = err == nil
	return f.rec, f.err
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(40, 20, color.NRGBA{R: 200, G: 180, B: 90, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t50\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t30\t10\t96.7\tTOTAL\n" +
	"5\t1\t1\t1\t1\t2\t45\t10\t30\t10\t90.2\t$12.00\n" +
	"5\t1\t1\t1\t1\t3\t80\t10\t5\t10\t0\t \n"

func TestParseTSV(t *testing.T) {
	conf, words := parseTSV(sampleTSV)
	assert.Equal(t, 93.0, conf)
	assert.Equal(t, 2, words)

	conf, words = parseTSV("level\tconf\n")
	assert.Zero(t, conf)
	assert.Zero(t, words)
}

func TestCLIEngine_Recognize(t *testing.T) {
	r := &fakeRunner{fn: func(_ string, args []string) ([]byte, []byte, error) {
		if args[len(args)-1] == "tsv" {
			return []byte(sampleTSV), nil, nil
		}
		return []byte("TOTAL $12.00\n"), nil, nil
	}}
	eng := &cliEngine{bin: "tesseract", runner: r, logger: slog.Default()}

	rec, err := eng.Recognize(context.Background(), "page.png", Params{Lang: "eng", PSM: 6, OEM: 3, TessdataDir: "/td"})
	require.NoError(t, err)
	assert.Equal(t, Recognition{Text: "TOTAL $12.00\n", Confidence: 93.0, WordCount: 2}, rec)

	require.Len(t, r.calls, 2)
	assert.Equal(t, []string{"tesseract", "page.png", "stdout", "-l", "eng", "--psm", "6", "--oem", "3", "--tessdata-dir", "/td"}, r.calls[0])
	assert.Equal(t, "tsv", r.calls[1][len(r.calls[1])-1])
}

func TestCLIEngine_Failure(t *testing.T) {
	r := &fakeRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Error opening data file"), errors.New("exit status 1")
	}}
	eng := &cliEngine{bin: "tesseract", runner: r, logger: slog.Default()}

	_, err := eng.Recognize(context.Background(), "page.png", Params{Lang: "xyz", PSM: 3, OEM: 3})
	require.ErrorIs(t, err, common.ErrOCR)
	assert.Contains(t, err.Error(), "Error opening data file")
}

func TestProfileFor(t *testing.T) {
	tests := map[constants.Mode]int{
		constants.ModeAuto:        3,
		constants.ModeReceipt:     6,
		constants.ModeInvoice:     6,
		constants.ModeHandwritten: 13,
		constants.Mode("blurry"):  3,
	}
	for mode, psm := range tests {
		assert.Equal(t, psm, ProfileFor(mode).PSM, string(mode))
	}
}

func TestProfilePreprocess(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "in.png")
	dst := filepath.Join(dir, "out.png")

	require.NoError(t, ProfileFor(constants.ModeReceipt).Preprocess(src, dst))
	img, err := imaging.Open(dst)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestExtractor_Image(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "receipt.png")
	eng := &fakeEngine{rec: Recognition{Text: "TOTAL $12.00", Confidence: 88.4, WordCount: 2}}
	cache := filepath.Join(dir, "artifacts")

	x, err := NewExtractor(Config{Preprocess: true, ArtifactCacheDir: cache}, nil, WithEngine(eng))
	require.NoError(t, err)

	res, err := x.Extract(context.Background(), src, Options{Mode: constants.ModeHandwritten})
	require.NoError(t, err)
	assert.Equal(t, "TOTAL $12.00", res.Text)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, constants.ModeHandwritten, res.Mode)
	assert.Equal(t, "eng", res.Language)
	assert.Equal(t, 88.4, res.Confidence)
	assert.Empty(t, res.Warnings)

	assert.True(t, eng.existed)
	assert.Equal(t, "preprocessed.png", filepath.Base(eng.gotPath))
	assert.Equal(t, Params{Lang: "eng", PSM: 13, OEM: 3}, eng.gotParams)

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files are removed")
}

func TestExtractor_PreprocessFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o600))
	eng := &fakeEngine{rec: Recognition{Text: "x"}}

	x, err := NewExtractor(Config{Preprocess: true}, nil, WithEngine(eng))
	require.NoError(t, err)

	res, err := x.Extract(context.Background(), src, Options{Lang: "deu"})
	require.NoError(t, err)
	assert.Equal(t, src, eng.gotPath)
	assert.Equal(t, "deu", eng.gotParams.Lang)
	assert.Len(t, res.Warnings, 1)
}

func TestExtractor_PDFFirstPage(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))

	r := &fakeRunner{}
	r.fn = func(_ string, args []string) ([]byte, []byte, error) {
		prefix := args[len(args)-1]
		writePNG(t, filepath.Dir(prefix), filepath.Base(prefix)+".png")
		return nil, nil, nil
	}
	eng := &fakeEngine{rec: Recognition{Text: "INVOICE"}}

	x, err := NewExtractor(Config{Pdftoppm: "/usr/bin/pdftoppm"}, nil, WithRunner(r), WithEngine(eng))
	require.NoError(t, err)

	res, err := x.Extract(context.Background(), pdf, Options{Mode: constants.ModeInvoice})
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "page.png", filepath.Base(eng.gotPath))
	assert.Equal(t, 6, eng.gotParams.PSM)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"/usr/bin/pdftoppm", "-r", "200", "-f", "1", "-l", "1", "-singlefile", "-png", pdf}, r.calls[0][:10])
}

func TestExtractor_PDFFailure(t *testing.T) {
	r := &fakeRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Syntax Error"), errors.New("exit status 99")
	}}
	x, err := NewExtractor(Config{}, nil, WithRunner(r), WithEngine(&fakeEngine{}))
	require.NoError(t, err)

	pdf := filepath.Join(t.TempDir(), "x.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))

	_, err = x.Extract(context.Background(), pdf, Options{})
	assert.ErrorIs(t, err, common.ErrOCR)

	r.fn = func(string, []string) ([]byte, []byte, error) { return nil, nil, nil }
	_, err = x.Extract(context.Background(), pdf, Options{})
	assert.ErrorIs(t, err, common.ErrOCR, "no page rendered")
}

func TestExtractor_MissingFile(t *testing.T) {
	x, err := NewExtractor(Config{}, nil, WithEngine(&fakeEngine{}))
	require.NoError(t, err)

	_, err = x.Extract(context.Background(), filepath.Join(t.TempDir(), "gone.png"), Options{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExtractor_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(path, []byte("Invoice No: A-1\nTOTAL 5.00\n"), 0o600))
	eng := &fakeEngine{}

	x, err := NewExtractor(Config{}, nil, WithEngine(eng))
	require.NoError(t, err)

	res, err := x.Extract(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "Invoice No: A-1\nTOTAL 5.00\n", res.Text)
	assert.Equal(t, 5, res.WordCount)
	assert.Equal(t, constants.ModeAuto, res.Mode)
	assert.Empty(t, eng.gotPath, "engine not used for text input")
}

func TestExtractor_Unsupported(t *testing.T) {
	x, err := NewExtractor(Config{}, nil, WithEngine(&fakeEngine{}))
	require.NoError(t, err)

	_, err = x.Extract(context.Background(), "notes.docx", Options{})
	assert.ErrorIs(t, err, common.ErrUnsupported)
}

func TestNewExtractor_Engines(t *testing.T) {
	x, err := NewExtractor(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, EngineCLI, x.engine.Name())

	_, err = NewExtractor(Config{Engine: "paddle"}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, Engines(), EngineCLI)
}

func TestCommandError(t *testing.T) {
	err := commandError("pdftoppm", errors.New("exit status 1"), []byte("Syntax Error: bad xref\nmore noise\n"))
	assert.ErrorIs(t, err, common.ErrOCR)
	assert.Contains(t, err.Error(), "Syntax Error: bad xref")
	assert.NotContains(t, err.Error(), "more noise")

	err = commandError("tesseract", &exec.Error{Name: "tesseract", Err: exec.ErrNotFound}, nil)
	assert.ErrorIs(t, err, common.ErrOCR)
	assert.Contains(t, err.Error(), "tesseract is not installed")
}
