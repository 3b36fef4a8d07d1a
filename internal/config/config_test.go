package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLimitsConfigDefaults(t *testing.T) {
	c := NewLimitsConfig(context.Background())

	assert.Equal(t, 3, c.MaxGenerations)
	assert.Equal(t, 8000, c.MaxReplyRunes)
	assert.Equal(t, int64(50<<20), c.MaxDownloadBytes)
	assert.Equal(t, time.Hour, c.Window())
}

func TestNewLimitsConfigFromEnv(t *testing.T) {
	t.Setenv("MAX_GENERATIONS", "5")
	t.Setenv("TIME_LIMIT_MINUTES", "10")

	c := NewLimitsConfig(context.Background())
	assert.Equal(t, 5, c.MaxGenerations)
	assert.Equal(t, 10*time.Minute, c.Window())
}

func TestWaifuFolderResolvesAgainstRuntime(t *testing.T) {
	t.Setenv("WAIFU_FOLDER", "pics")
	c := NewWaifuConfig(context.Background(), "/srv/yuki")
	assert.Equal(t, filepath.Join("/srv/yuki", "pics"), c.Folder)

	t.Setenv("WAIFU_FOLDER", "/data/pics")
	c = NewWaifuConfig(context.Background(), "/srv/yuki")
	assert.Equal(t, "/data/pics", c.Folder)
}

func TestRuntimePath(t *testing.T) {
	t.Setenv("YUKI_RUNTIME_PATH", "/tmp/yuki")
	assert.Equal(t, "/tmp/yuki", GetRuntimePath())
	assert.Equal(t, "/tmp/yuki/.env", GetEnvPath())

	c := AppConfig{RuntimePath: "/tmp/yuki"}
	assert.Equal(t, "/tmp/yuki/OWNER.md", c.GetOwnerPromptPath())
	assert.Equal(t, "/tmp/yuki/yuki.db", c.GetDatabasePath())
}

func TestProviderDefaultModel(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openrouter")
	c := NewProviderConfig(context.Background())
	assert.Equal(t, "google/gemini-2.0-flash-001", c.Model)
	assert.InDelta(t, 0.9, c.Temperature, 0.0001)
}
