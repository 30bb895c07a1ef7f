package player

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// OutputMode selects the audio output backend of the engine.
type OutputMode string

const (
	OutputDefault         OutputMode = "default"
	OutputPulse           OutputMode = "pulse"
	OutputALSA            OutputMode = "alsa"
	OutputALSAExclusive   OutputMode = "alsa_exclusive"
	OutputWASAPIShared    OutputMode = "wasapi_shared"
	OutputWASAPIExclusive OutputMode = "wasapi_exclusive"
	OutputCoreAudio       OutputMode = "coreaudio"
)

// outputArgs maps each known mode to the mpv flags that select it.
var outputArgs = map[OutputMode][]string{
	OutputDefault:         {},
	OutputPulse:           {"--ao=pulse"},
	OutputALSA:            {"--ao=alsa"},
	OutputALSAExclusive:   {"--ao=alsa", "--audio-exclusive=yes"},
	OutputWASAPIShared:    {"--ao=wasapi"},
	OutputWASAPIExclusive: {"--ao=wasapi", "--audio-exclusive=yes"},
	OutputCoreAudio:       {"--ao=coreaudio"},
}

// Outputs returns every known output mode in a stable order.
func Outputs() []OutputMode {
	return []OutputMode{
		OutputDefault,
		OutputPulse,
		OutputALSA,
		OutputALSAExclusive,
		OutputWASAPIShared,
		OutputWASAPIExclusive,
		OutputCoreAudio,
	}
}

// ParseOutput validates a user supplied output mode name.
func ParseOutput(name string) (OutputMode, error) {
	mode := OutputMode(strings.ToLower(strings.TrimSpace(name)))
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownOutput, name, strings.Join(lo.Map(Outputs(), func(m OutputMode, _ int) string {
			return m.String()
		}), ", "))
	}
	return mode, nil
}

// Valid reports whether the mode is known.
func (m OutputMode) Valid() bool {
	_, ok := outputArgs[m]
	return ok
}

// Exclusive reports whether the mode takes exclusive control of the device.
func (m OutputMode) Exclusive() bool {
	return lo.Contains(outputArgs[m], "--audio-exclusive=yes")
}

// Args returns the engine flags selecting the mode. Unknown modes have none.
func (m OutputMode) Args() []string {
	return append([]string(nil), outputArgs[m]...)
}

// Next returns the mode following m in Outputs, wrapping around.
func (m OutputMode) Next() OutputMode {
	outputs := Outputs()
	_, i, ok := lo.FindIndexOf(outputs, func(o OutputMode) bool { return o == m })
	if !ok {
		return OutputDefault
	}
	return outputs[(i+1)%len(outputs)]
}

func (m OutputMode) String() string {
	return string(m)
}
