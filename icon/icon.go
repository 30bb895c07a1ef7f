// Package icon renders UI symbols in the variant chosen by the icons.variant setting.
package icon

import (
	"github.com/plplayer/plplayer/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Variant names a family of glyphs.
const (
	Emoji   = "emoji"
	Nerd    = "nerd"
	Plain   = "plain"
	Kaomoji = "kaomoji"
	Squares = "squares"
)

// AvailableVariants lists every variant the icons.variant setting accepts.
func AvailableVariants() []string {
	return []string{Emoji, Nerd, Plain, Kaomoji, Squares}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Play Icon = iota
	Pause
	Stop
	Next
	Prev
	Check
	Fail
	Playlist
	Track
	Speaker
	Resume
)

// glyphs maps a variant to its rendering of one icon.
type glyphs map[string]string

var icons = map[Icon]glyphs{
	Play:     {Emoji: "▶️", Nerd: "", Plain: ">", Kaomoji: "(ﾉ◕ヮ◕)ﾉ", Squares: "▶"},
	Pause:    {Emoji: "⏸️", Nerd: "", Plain: "||", Kaomoji: "(－_－) zzZ", Squares: "◼"},
	Stop:     {Emoji: "⏹️", Nerd: "", Plain: "[]", Kaomoji: "(・_・)", Squares: "■"},
	Next:     {Emoji: "⏭️", Nerd: "", Plain: ">>", Kaomoji: "(→_→)", Squares: "▷"},
	Prev:     {Emoji: "⏮️", Nerd: "", Plain: "<<", Kaomoji: "(←_←)", Squares: "◁"},
	Check:    {Emoji: "✅", Nerd: "", Plain: "+", Kaomoji: "(^_^)b", Squares: "▣"},
	Fail:     {Emoji: "❌", Nerd: "", Plain: "x", Kaomoji: "(╥﹏╥)", Squares: "▨"},
	Playlist: {Emoji: "📜", Nerd: "", Plain: "#", Kaomoji: "φ(．．)", Squares: "▤"},
	Track:    {Emoji: "🎵", Nerd: "", Plain: "~", Kaomoji: "♪(´▽｀)", Squares: "▪"},
	Speaker:  {Emoji: "🔊", Nerd: "", Plain: "o", Kaomoji: "(°o°)", Squares: "▦"},
	Resume:   {Emoji: "🔁", Nerd: "", Plain: "@", Kaomoji: "(o^▽^o)", Squares: "▩"},
}

// Get renders i in the configured variant. Unknown icons and variants render empty.
func Get(i Icon) string {
	return GetAs(i, viper.GetString(key.IconsVariant))
}

// GetAs renders i in the given variant.
func GetAs(i Icon, variant string) string {
	g, ok := icons[i]
	if !ok {
		return ""
	}
	return lo.ValueOr(g, variant, "")
}
