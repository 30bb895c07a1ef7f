// Package config owns the registry of settings, their defaults and the viper instance that resolves them.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer turns a dotted key into the suffix of its environment variable.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and environment bindings, then reads the config file if one exists.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Plplayer)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Plplayer)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, k := range EnvExposed {
		viper.MustBindEnv(k)
	}

	viper.SetTypeByDefaultValue(true)
	for k, field := range Default {
		viper.SetDefault(k, field.Value)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// Validate checks that every key with a closed set of options holds one of them.
func Validate() error {
	var errs []error
	for _, k := range EnvExposed {
		field := Default[k]
		if len(field.Options) == 0 {
			continue
		}
		if err := field.Accepts(viper.GetString(k)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
