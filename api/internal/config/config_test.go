package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "LLM_NAME", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "REQUEST_TIMEOUT_SEC", "MAX_UPLOAD_MB",
		"MAX_IMAGE_SIDE", "TMP_DIR", "PROMPT_DIR", "LOG_LEVEL", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "gpt", cfg.LLMName)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 1568, cfg.MaxImageSide)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_MissingOpenAIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_GeminiRequiresOwnKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_NAME", "gemini")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "g-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLMName)
}

func TestLoad_UnknownEngine(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_NAME", "deepseek")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REQUEST_TIMEOUT_SEC", "30")
	t.Setenv("MAX_UPLOAD_MB", "4")
	t.Setenv("MAX_IMAGE_SIDE", "bogus")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(4<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 1568, cfg.MaxImageSide)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
