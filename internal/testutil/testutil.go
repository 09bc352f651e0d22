// Package testutil provides shared test helpers for creating config files and
// subtitle or keyword fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleSubtitles is a small well-formed subtitle document.
const SampleSubtitles = `1
00:00:01,000 --> 00:00:04,000
Would you like some coffee?

2
00:00:05,000 --> 00:00:08,000
Hello, nice to meet you.
`

// SampleKeywords matches SampleSubtitles in YAML keyword definition format.
const SampleKeywords = `- id: kw-coffee
  word: coffee
  translation: コーヒー
  start_time: 1
  end_time: 4
- id: kw-hello
  word: hello
  translation: こんにちは
  start_time: 5
  end_time: 8
`

// SetupTestConfig creates a minimal config file and all required directories
// for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"cache", "progress"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`user:
  id: test-user
api:
  base_url: https://api.dramalearn.test/v1
  max_retry_attempts: 0
cache:
  directory: %s
  namespace: test
progress:
  storage: yaml
  directory: %s
`, filepath.Join(tmpDir, "cache"), filepath.Join(tmpDir, "progress"))

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// WriteSubtitleFixture writes SampleSubtitles into dir and returns its path.
func WriteSubtitleFixture(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "episode.srt")
	require.NoError(t, os.WriteFile(path, []byte(SampleSubtitles), 0644))
	return path
}

// WriteKeywordsFixture writes SampleKeywords into dir and returns its path.
func WriteKeywordsFixture(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "keywords.yml")
	require.NoError(t, os.WriteFile(path, []byte(SampleKeywords), 0644))
	return path
}
