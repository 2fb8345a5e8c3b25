// Package config loads zipdir settings from defaults, an optional config
// file, ZIPDIR_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Fuabioo/zipdir/internal/archive"
	"github.com/Fuabioo/zipdir/internal/errors"
)

const (
	// AppName is the application name.
	AppName = "zipdir"
	// EnvPrefix prefixes every environment override, e.g. ZIPDIR_ON_UNREADABLE.
	EnvPrefix = "ZIPDIR"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
)

// Config holds every setting that influences an archive run.
type Config struct {
	Methods      []string `mapstructure:"methods" json:"methods" validate:"dive,required"`
	OnUnreadable string   `mapstructure:"on_unreadable" json:"on_unreadable" validate:"oneof=empty skip abort"`
	Permissions  string   `mapstructure:"permissions" json:"permissions" validate:"required,fileperm"`
	DeflateLevel int      `mapstructure:"deflate_level" json:"deflate_level" validate:"min=-2,max=9"`
	Bzip2Level   int      `mapstructure:"bzip2_level" json:"bzip2_level" validate:"min=0,max=9"`
	ZstdLevel    int      `mapstructure:"zstd_level" json:"zstd_level" validate:"min=0,max=22"`
	LogLevel     string   `mapstructure:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// ConfigDir overrides Dir() when searching for config.{yaml,json,toml}.
	ConfigDir string
	// Flags are bound by name: method, on-unreadable, permissions, log-level.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"method":        "methods",
	"on-unreadable": "on_unreadable",
	"permissions":   "permissions",
	"log-level":     "log_level",
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	methods := make([]string, 0, 4)
	for _, m := range archive.DefaultCandidates() {
		methods = append(methods, m.String())
	}

	return &Config{
		Methods:      methods,
		OnUnreadable: archive.PolicyEmpty.String(),
		Permissions:  "0755",
		DeflateLevel: -1,
		Bzip2Level:   0,
		ZstdLevel:    0,
		LogLevel:     "info",
	}
}

// Load resolves the configuration and returns it with the path of the
// config file that was read, or "" when none was found.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("methods", defaults.Methods)
	v.SetDefault("on_unreadable", defaults.OnUnreadable)
	v.SetDefault("permissions", defaults.Permissions)
	v.SetDefault("deflate_level", defaults.DeflateLevel)
	v.SetDefault("bzip2_level", defaults.Bzip2Level)
	v.SetDefault("zstd_level", defaults.ZstdLevel)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, "", errors.InvalidConfig(err)
				}
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.InvalidConfig(err)
		}
	} else {
		dir := opts.ConfigDir
		if dir == "" {
			var err error
			if dir, err = Dir(); err != nil {
				return nil, "", err
			}
		}

		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", errors.InvalidConfig(err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.InvalidConfig(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, v.ConfigFileUsed(), nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	_ = val.RegisterValidation("fileperm", func(fl validator.FieldLevel) bool {
		_, err := parsePermissions(fl.Field().String())
		return err == nil
	})
	return val
}

// Validate checks field constraints and that every method name is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.InvalidConfig(err)
	}
	if _, err := archive.ParseMethods(c.Methods); err != nil {
		return err
	}
	return nil
}

// Candidates returns the configured method priority list.
func (c *Config) Candidates() ([]archive.Method, error) {
	return archive.ParseMethods(c.Methods)
}

// FileMode returns the parsed permission bits.
func (c *Config) FileMode() (fs.FileMode, error) {
	return parsePermissions(c.Permissions)
}

// ArchiveOptions converts the config into archiver options.
func (c *Config) ArchiveOptions(fsys afero.Fs, logger *zap.Logger) (archive.Options, error) {
	policy, err := archive.ParsePolicy(c.OnUnreadable)
	if err != nil {
		return archive.Options{}, err
	}

	perm, err := c.FileMode()
	if err != nil {
		return archive.Options{}, errors.InvalidConfig(err)
	}

	return archive.Options{
		Fs:          fsys,
		Logger:      logger,
		Policy:      policy,
		Permissions: perm,
		Levels: &archive.Levels{
			Deflate: c.DeflateLevel,
			Bzip2:   c.Bzip2Level,
			Zstd:    c.ZstdLevel,
		},
	}, nil
}

// parsePermissions parses octal permission bits such as "0755", "755" or "0o755".
func parsePermissions(s string) (fs.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0o"), "0O")
	bits, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	if bits == 0 || bits > 0o777 {
		return 0, strconv.ErrRange
	}
	return fs.FileMode(bits), nil
}
