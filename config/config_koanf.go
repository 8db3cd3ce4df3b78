package config

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
)

func loadFile(k *koanf.Koanf, path string) error {
	return k.Load(file.Provider(path), yaml.Parser())
}

// loadEnvironment maps SITECHECK_LEDGER_APIKEY to ledger.apiKey. Keys already
// known from the file keep their spelling so the environment overrides them.
func loadEnvironment(k *koanf.Koanf) error {
	known := make(map[string]string)
	for _, key := range k.Keys() {
		known[strings.ToLower(key)] = key
	}

	return k.Load(env.Provider(EnvConfigPrefix, ".", func(s string) string {
		if s == ConfigFilePath {
			return ""
		}

		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvConfigPrefix)), "_", ".")
		if original, ok := known[key]; ok {
			return original
		}

		return key
	}), nil)
}

func unmarshalKoanf(k *koanf.Koanf, cfg *Config) error {
	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "yaml",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       composeDecodeHookFunc(),
			Metadata:         nil,
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
}

func composeDecodeHookFunc() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		upstreamTypeHookFunc(),
		durationTypeHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","))
}
