package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fractionate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Corpus.SplitSentences)
	assert.True(t, cfg.Corpus.RemoveHTMLTags)
	assert.Equal(t, 5.0, cfg.Corpus.VerticalThreshold)
	assert.Empty(t, cfg.Store.Path)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
corpus:
  split_sentences: false
  classify_items: false
log:
  level: debug
  format: json
store:
  path: /tmp/corpora.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Corpus.SplitSentences)
	assert.False(t, cfg.Corpus.ClassifyItems)
	assert.True(t, cfg.Corpus.SplitParagraphs, "keys absent from the file keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/corpora.db", cfg.Store.Path)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(writeConfig(t, "corpus: [unterminated"))
	assert.ErrorContains(t, err, "parse config file")

	_, err = Load(writeConfig(t, "log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "invalid log format")

	_, err = Load(writeConfig(t, "log:\n  format: yaml\n"))
	assert.ErrorContains(t, err, "validate config")

	_, err = Load(writeConfig(t, "corpus:\n  vertical_threshold: -1\n"))
	assert.ErrorContains(t, err, "vertical_threshold")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FRACTIONATE_SPLIT_PARAGRAPHS", "false")
	t.Setenv("FRACTIONATE_REMOVE_HTML_TAGS", "0")
	t.Setenv("FRACTIONATE_VERTICAL_THRESHOLD", "12.5")
	t.Setenv("FRACTIONATE_LOG_LEVEL", "warn")
	t.Setenv("FRACTIONATE_STORE_PATH", "corpora.db")
	t.Setenv("FRACTIONATE_LOG_FORMAT", "json")
	t.Setenv("FRACTIONATE_SPLIT_SENTENCES", "  ")

	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Corpus.SplitParagraphs)
	assert.False(t, cfg.Corpus.RemoveHTMLTags)
	assert.True(t, cfg.Corpus.SplitSentences, "blank values are ignored")
	assert.Equal(t, 12.5, cfg.Corpus.VerticalThreshold)
	assert.Equal(t, "warn", cfg.Log.Level, "environment wins over the file")
	assert.Equal(t, "corpora.db", cfg.Store.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvOverrideErrors(t *testing.T) {
	t.Setenv("FRACTIONATE_CLASSIFY_ITEMS", "maybe")
	_, err := Load("")
	assert.ErrorContains(t, err, "FRACTIONATE_CLASSIFY_ITEMS")
}

func TestEnvThresholdError(t *testing.T) {
	t.Setenv("FRACTIONATE_VERTICAL_THRESHOLD", "wide")
	_, err := Load("")
	assert.ErrorContains(t, err, "FRACTIONATE_VERTICAL_THRESHOLD")
}
