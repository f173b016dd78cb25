package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/devsetup/pkg/errors"
	"github.com/arthur-debert/devsetup/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "DEVSETUP_"

// ProjectFiles are the file names looked up in the project root, in order.
var ProjectFiles = []string{".devsetup.toml", "devsetup.toml"}

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	// Root is the project root searched for ProjectFiles. Defaults to ".".
	Root string

	// File is an explicit config file. It must exist.
	File string

	// Overrides are dotted keys set from the command line.
	Overrides map[string]interface{}
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Project file
	root := opts.Root
	if root == "" {
		root = "."
	}
	path, err := projectFile(root, opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded project config")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// The project root is where the config was found unless set explicitly.
	if !k.Exists("project.root") || k.String("project.root") == "." {
		if err := k.Set("project.root", root); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to set project root")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	cfg.file = path

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps DEVSETUP_BUILD_COMPILE_COMMANDS to build.compile_commands.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func projectFile(root, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", explicit)
		}
		return explicit, nil
	}
	for _, name := range ProjectFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.raw = k.Raw()
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Build.Dir == "" {
		return errors.New(errors.ErrConfigParse, "build.dir must not be empty")
	}
	if cfg.Build.Type == "" {
		return errors.New(errors.ErrConfigParse, "build.type must not be empty")
	}
	switch cfg.Toolchain.VersionOrder {
	case "", "lexical", "natural":
	default:
		return errors.Newf(errors.ErrConfigParse, "toolchain.version_order must be lexical or natural, got %q", cfg.Toolchain.VersionOrder)
	}
	if cfg.Cleanup.Wait < 0 {
		return errors.New(errors.ErrConfigParse, "cleanup.wait must not be negative")
	}
	for i, t := range cfg.Tools {
		if t.Name == "" || len(t.Command) == 0 {
			return errors.Newf(errors.ErrConfigParse, "tools[%d] needs a name and a command", i)
		}
	}
	for i, r := range cfg.Diagnostics.Rules {
		if len(r.Match) == 0 || len(r.Hint) == 0 {
			return errors.Newf(errors.ErrConfigParse, "diagnostics.rules[%d] needs match and hint", i)
		}
	}
	return nil
}

// TOML renders the effective configuration.
func (c *Config) TOML() ([]byte, error) {
	out, err := gotoml.Marshal(c.raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
