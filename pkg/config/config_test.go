package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TEXT_PROVIDER", " Gemini ")
	t.Setenv("STORAGE_BUCKET", "comic-images")
	t.Setenv("SUPABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.TextProvider)
	assert.Equal(t, "comic-images", cfg.StorageBucket)
	assert.Equal(t, 30*time.Second, cfg.GalleryCacheTTL)
	assert.Equal(t, 60*time.Second, cfg.SaveTimeout)
	assert.False(t, cfg.StorageEnabled())
	assert.Equal(t, ":8080", (&Config{Port: "8080"}).Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TEXT_PROVIDER", "openai")
	t.Setenv("PORT", "9000")
	t.Setenv("IMAGE_RATE_PER_SEC", "0.5")
	t.Setenv("GALLERY_CACHE_TTL", "2m")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.TextProvider)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, 0.5, cfg.ImageRatePerSec)
	assert.Equal(t, 2*time.Minute, cfg.GalleryCacheTTL)
	assert.True(t, cfg.StorageEnabled())
	assert.True(t, cfg.DatabaseEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TEXT_PROVIDER", "gemini")
	t.Setenv("PANEL_CONCURRENCY", "many")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PANEL_CONCURRENCY", "2")
	t.Setenv("TEXT_PROVIDER", "claude")
	_, err = Load()
	assert.Error(t, err)
}
