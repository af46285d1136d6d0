package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
env: development
server:
  http:
    port: "8080"
orders:
  track_limit: 3
`), 0o600))
	t.Chdir(dir)
	t.Cleanup(viper.Reset)

	require.NotPanics(t, MustInit)

	assert.Equal(t, "development", viper.GetString("env"))
	assert.Equal(t, "8080", viper.GetString("server.http.port"))
	assert.Equal(t, 3, viper.GetInt("orders.track_limit"))
	assert.Equal(t, "50051", viper.GetString("server.grpc.port"))
	assert.True(t, viper.GetBool("orders.strict_transitions"))
	assert.Equal(t, "7d", viper.GetString("auth.jwt_expires_in"))
}

func TestMustInitWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(viper.Reset)

	assert.Panics(t, MustInit)
}
