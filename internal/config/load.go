package config

import (
	"github.com/spf13/viper"
)

// envKeys are bound so that TIL_* variables reach Unmarshal even when the
// key is absent from the config file.
var envKeys = []string{
	"app.log_level", "app.log_file",
	"store.backend", "store.load_timeout", "store.limit", "store.cache_ttl",
	"supabase.url", "supabase.api_key", "supabase.table", "supabase.timeout",
	"supabase.requests_per_second", "supabase.burst",
	"redis.addr", "redis.username", "redis.password", "redis.db",
	"openai.api_key", "openai.model", "openai.base_url",
	"digest.interval", "digest.frequency", "digest.top_n", "digest.output_dir",
	"digest.title", "digest.preface", "digest.postscript", "digest.language",
	"mirror.interval",
}

// Load unmarshals v into a Config and applies defaults.
func Load(v *viper.Viper) (Config, error) {
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, err
		}
	}
	// An explicit 0 disables the cache, so this default cannot live in FillDefaults.
	v.SetDefault("store.cache_ttl", "30s")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	c.FillDefaults()
	return c, nil
}
