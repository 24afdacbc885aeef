package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	assert.Equal(t, "info", c.App.LogLevel)
	assert.Equal(t, "supabase", c.Store.Backend)
	assert.Equal(t, 10*time.Second, c.Store.LoadTimeout)
	assert.Equal(t, 1000, c.Store.Limit)
	assert.Equal(t, "facts", c.Supabase.Table)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, "daily", c.Digest.Frequency)
	assert.Len(t, c.Categories, 8)

	reg, err := c.Registry()
	require.NoError(t, err)
	assert.True(t, reg.Has("news"))
}

func TestUnmarshalFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
store:
  backend: redis
  load_timeout: 3s
  cache_ttl: 1m
supabase:
  url: https://demo.supabase.co
categories:
  - name: cooking
    color: "#ff0000"
  - name: space
    color: "#000088"
`)))

	var c Config
	require.NoError(t, v.Unmarshal(&c))
	c.FillDefaults()

	assert.Equal(t, "redis", c.Store.Backend)
	assert.Equal(t, 3*time.Second, c.Store.LoadTimeout)
	assert.Equal(t, time.Minute, c.Store.CacheTTL)
	assert.Equal(t, "https://demo.supabase.co", c.Supabase.URL)

	reg, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"cooking", "space"}, reg.Names())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	c := Config{}
	c.FillDefaults()
	c.Categories = append(c.Categories, c.Categories[0])
	_, err := c.Registry()
	assert.Error(t, err)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TIL_SUPABASE_API_KEY", "secret")
	t.Setenv("TIL_STORE_BACKEND", "memory")

	v := viper.New()
	v.SetEnvPrefix("TIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "secret", c.Supabase.APIKey)
	assert.Equal(t, "memory", c.Store.Backend)
	assert.Equal(t, 30*time.Second, c.Store.CacheTTL)
	assert.Equal(t, 10*time.Second, c.Store.LoadTimeout)
}

func TestLoadKeepsExplicitZeroCacheTTL(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("store:\n  cache_ttl: 0s\n")))

	c, err := Load(v)
	require.NoError(t, err)
	assert.Zero(t, c.Store.CacheTTL)
}
