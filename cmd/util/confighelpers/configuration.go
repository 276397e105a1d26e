// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package confighelpers

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/mitchellh/mapstructure"
	flag "github.com/spf13/pflag"
)

// ApplyOverrides replaces config keys with the given values, used to blank
// secrets before a config is printed.
func ApplyOverrides(k *koanf.Koanf, overrides map[string]interface{}) error {
	return k.Load(confmap.Provider(overrides, "."), nil)
}

// BeginCommonParse layers configuration sources in increasing precedence:
// flag defaults, --conf.file JSON files, --conf.string, environment
// variables under --conf.env-prefix, and finally flags set on the command
// line.
func BeginCommonParse(f *flag.FlagSet, args []string) (*koanf.Koanf, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	if f.NArg() != 0 {
		return nil, fmt.Errorf("unexpected positional arguments: %v", f.Args())
	}

	k := koanf.New(".")
	// defaults only; explicitly set flags are applied last
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, fmt.Errorf("error loading flag defaults: %w", err)
	}

	for _, configFile := range k.Strings("conf.file") {
		if configFile == "" {
			continue
		}
		if err := k.Load(file.Provider(configFile), json.Parser()); err != nil {
			return nil, fmt.Errorf("error loading local config file %q: %w", configFile, err)
		}
	}

	if configString := k.String("conf.string"); configString != "" {
		if err := k.Load(rawbytes.Provider([]byte(configString)), json.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config string: %w", err)
		}
	}

	if envPrefix := k.String("conf.env-prefix"); envPrefix != "" {
		if err := loadEnvironmentVariables(k, envPrefix); err != nil {
			return nil, fmt.Errorf("error loading environment variables: %w", err)
		}
	}

	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, fmt.Errorf("error loading flags: %w", err)
	}
	return k, nil
}

// loadEnvironmentVariables maps PREFIX_CELESTIA_AUTH__TOKEN to
// celestia.auth-token: a single underscore separates keys, a double
// underscore stands for a dash.
func loadEnvironmentVariables(k *koanf.Koanf, envPrefix string) error {
	prefix := strings.ToUpper(envPrefix) + "_"
	return k.Load(env.ProviderWithValue(prefix, ".", func(key string, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		key = strings.ReplaceAll(key, "__", "-")
		key = strings.ReplaceAll(key, "_", ".")
		if k.Exists(key) {
			switch k.Get(key).(type) {
			case []string, []interface{}:
				return key, strings.Split(value, ",")
			}
		}
		return key, value
	}), nil)
}

// EndCommonParse decodes k into config. Unknown keys are an error.
func EndCommonParse(k *koanf.Koanf, config interface{}) error {
	decoderConfig := mapstructure.DecoderConfig{
		ErrorUnused: true,

		// Default values
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(",")),
		Metadata:         nil,
		Result:           config,
		WeaklyTypedInput: true,
	}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{DecoderConfig: &decoderConfig}); err != nil {
		return err
	}
	return nil
}

// DumpConfig renders k as indented JSON after applying overrides. k is left
// untouched.
func DumpConfig(k *koanf.Koanf, overrides map[string]interface{}) ([]byte, error) {
	dump := k.Copy()
	if err := ApplyOverrides(dump, overrides); err != nil {
		return nil, fmt.Errorf("error removing extra parameters before dump: %w", err)
	}
	c, err := dump.Marshal(json.Parser())
	if err != nil {
		return nil, fmt.Errorf("unable to marshal config file to JSON: %w", err)
	}
	return c, nil
}

// PrintErrorAndExit prints err and exits, after usage when err is not flag.ErrHelp.
func PrintErrorAndExit(err error, usage func(string)) {
	vcsRevision, vcsTime := GetVersion()
	fmt.Printf("Version: %v, time: %v\n", vcsRevision, vcsTime)
	if err != nil && errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Printf("%s\n", err.Error())
	usage(os.Args[0])
	os.Exit(1)
}

// GetVersion reports the vcs revision and commit time baked in at build time.
func GetVersion() (string, string) {
	vcsRevision := "development"
	vcsTime := "development"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return vcsRevision, vcsTime
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
			if len(vcsRevision) > 7 {
				vcsRevision = vcsRevision[:7]
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				vcsTime = t.Format("2006-01-02T15:04:05-0700")
			}
		case "vcs.modified":
			if setting.Value == "true" {
				vcsRevision += "-modified"
			}
		}
	}
	return vcsRevision, vcsTime
}
