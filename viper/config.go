// Package viper loads the pipeline configuration from a YAML file and
// POLICYLENS_* environment variables.
package viper

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/policylens"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. POLICYLENS_MODE=remote.
const EnvPrefix = "POLICYLENS"

// ConfigName is the file name searched for when no path is given.
const ConfigName = "policylens"

// LoadConfig reads the configuration. An empty path searches for
// policylens.yaml in the working directory and then in the user config
// directory; finding none is not an error. Defaults come from
// policylens.DefaultConfig. Returns EINVALID if the result does not
// validate.
func LoadConfig(path string) (*policylens.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database", "POLICYLENS_DB")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, policylens.Errorf(policylens.EINVALID, "reading config: %v", err)
		}
	}

	var cfg policylens.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, policylens.Errorf(policylens.EINVALID, "decoding config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every scalar key so that AutomaticEnv can
// override it and Unmarshal sees it.
func setDefaults(v *viper.Viper) {
	d := policylens.DefaultConfig()
	v.SetDefault("mode", string(d.Mode))
	v.SetDefault("provider", string(d.Provider))
	v.SetDefault("summary_model", d.SummaryModel)
	v.SetDefault("classifier_model", d.ClassifierModel)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("remote_url", d.RemoteURL)
	v.SetDefault("max_chunk_length", d.MaxChunkLength)
	v.SetDefault("strategy", string(d.Strategy))
	v.SetDefault("top_k", d.TopK)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("requests_per_second", d.RequestsPerSecond)
	v.SetDefault("extractor", string(d.Extractor))
	v.SetDefault("database", d.Database)
}
