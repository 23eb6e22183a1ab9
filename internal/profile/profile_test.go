package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir()}
	require.NoError(t, p.Validate())

	assert.Equal(t, "sqlite", p.Driver)
	assert.Contains(t, p.DSN, "askdesk_dev.db")
	assert.True(t, p.IsDev())
}

func TestValidateUnknownModeFallsBackToDemo(t *testing.T) {
	p := &Profile{Mode: "staging", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "postgres", Data: t.TempDir()}
	require.Error(t, p.Validate())

	p.DSN = "postgres://localhost/askdesk"
	require.NoError(t, p.Validate())
}

func TestIsAIEnabled(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.IsAIEnabled())

	p.AIOpenAIAPIKey = "sk-test"
	assert.True(t, p.IsAIEnabled())
}
