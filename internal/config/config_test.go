package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpamKeywordsFromEnv(t *testing.T) {
	t.Setenv("SPAM_KEYWORDS", " viagra , casino ,, 免費 ")

	keywords, err := loadSpamKeywords()
	require.NoError(t, err)
	assert.Equal(t, []string{"viagra", "casino", "免費"}, keywords)
}

func TestLoadSpamKeywordsFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "keywords:\n  - viagra\n  - lottery\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SPAM_KEYWORDS", "")
	t.Setenv("SPAM_KEYWORDS_FILE", path)

	keywords, err := loadSpamKeywords()
	require.NoError(t, err)
	assert.Equal(t, []string{"viagra", "lottery"}, keywords)
}

func TestLoadSpamKeywordsEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: []\n"), 0o600))

	t.Setenv("SPAM_KEYWORDS", "")
	t.Setenv("SPAM_KEYWORDS_FILE", path)

	_, err := loadSpamKeywords()
	assert.Error(t, err)
}

func TestLoadSpamKeywordsDefaults(t *testing.T) {
	t.Setenv("SPAM_KEYWORDS", "")
	t.Setenv("SPAM_KEYWORDS_FILE", "")

	keywords, err := loadSpamKeywords()
	require.NoError(t, err)
	assert.Equal(t, DefaultSpamKeywords, keywords)
}
