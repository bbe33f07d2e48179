package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_URL", "OCR_ENGINE", "OCR_LANG", "OCR_DPI", "OCR_OEM", "OCR_PREPROCESS", "BATCH_WORKERS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, "file:ocrfields.db", cfg.Database.DSN)
	assert.Equal(t, "cli", cfg.OCR.Engine)
	assert.Equal(t, "eng", cfg.OCR.Lang)
	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, 3, cfg.OCR.OEM)
	assert.True(t, cfg.OCR.Preprocess)
	assert.Equal(t, 4, cfg.Batch.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_DPI", "300")
	t.Setenv("OCR_PREPROCESS", "false")
	t.Setenv("BATCH_PROCESS_TIMEOUT", "45s")
	t.Setenv("OCR_OEM", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.False(t, cfg.OCR.Preprocess)
	assert.Equal(t, 45*time.Second, cfg.Batch.ProcessTimeout)
	assert.Equal(t, 3, cfg.OCR.OEM, "unparsable values keep the default")
}

func TestLoadConfigFileOverlay(t *testing.T) {
	t.Setenv("OCR_LANG", "deu")
	path := filepath.Join(t.TempDir(), "ocrfields.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  dsn: ":memory:"
ocr:
  mode: receipt
  dpi: 150
batch:
  workers: 2
  process_timeout: 10s
`), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, "receipt", cfg.OCR.Mode)
	assert.Equal(t, 150, cfg.OCR.DPI)
	assert.Equal(t, "deu", cfg.OCR.Lang, "env value survives when the file omits the key")
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 10*time.Second, cfg.Batch.ProcessTimeout)
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ocr: [unterminated"), 0o600))
	_, err = LoadConfigFile(path)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Database.DSN = ""
	cfg.OCR.Engine = "paddle"
	cfg.OCR.Mode = "blurry"
	cfg.Batch.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	for _, field := range []string{"database.dsn", "ocr.engine", "ocr.mode", "batch.workers"} {
		assert.Contains(t, err.Error(), field)
	}
}
