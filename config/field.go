package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered configuration key together with its default value.
// Options, when present, is the closed set of values the key accepts.
type Field struct {
	Key         string
	Value       any
	Description string
	Options     []string
}

// Env returns the environment variable that overrides this field.
func (f Field) Env() string {
	prefix := strings.ToUpper(constant.Plplayer) + "_"
	name := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	if strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

// Accepts reports whether value is one of the field's options.
// Fields without options accept anything.
func (f Field) Accepts(value string) error {
	if len(f.Options) == 0 || lo.Contains(f.Options, value) {
		return nil
	}
	return fmt.Errorf("invalid value %q for %s, expected one of: %s", value, f.Key, strings.Join(f.Options, ", "))
}

// Type names the Go type of the default value.
func (f Field) Type() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return fmt.Sprintf("%T", f.Value)
	}
}

// MarshalJSON renders the field with both its current and default value.
func (f Field) MarshalJSON() ([]byte, error) {
	type view struct {
		Key         string   `json:"key"`
		Env         string   `json:"env"`
		Type        string   `json:"type"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Options     []string `json:"options,omitempty"`
		Description string   `json:"description"`
	}

	return json.Marshal(view{
		Key:         f.Key,
		Env:         f.Env(),
		Type:        f.Type(),
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Options:     f.Options,
		Description: f.Description,
	})
}

// Pretty renders the field as a colored block for `config info`.
func (f Field) Pretty() string {
	label := style.Fg(color.Blue)

	rows := [][2]string{
		{"Key", style.Fg(color.Purple)(f.Key)},
		{"Env", f.Env()},
		{"Value", highlight(viper.Get(f.Key))},
		{"Default", highlight(f.Value)},
		{"Type", f.Type()},
	}
	if len(f.Options) > 0 {
		rows = append(rows, [2]string{"Options", strings.Join(lo.Map(f.Options, func(o string, _ int) string {
			return highlight(o)
		}), " ")})
	}

	lines := []string{style.Faint(f.Description)}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", label(fmt.Sprintf("%-8s", row[0]+":")), row[1]))
	}
	return strings.Join(lines, "\n")
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		s := strconv.FormatBool(value)
		return lo.Ternary(value, style.Fg(color.Green), style.Fg(color.Red))(s)
	case string:
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}
