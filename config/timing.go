package config

import (
	"time"

	"github.com/plplayer/plplayer/key"
	"github.com/spf13/viper"
)

func millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

// DebounceInterval is the minimum spacing between two background history writes.
func DebounceInterval() time.Duration {
	d := millis(key.WriterDebounceMs)
	if d <= 0 {
		return time.Duration(Default[key.WriterDebounceMs].Value.(int)) * time.Millisecond
	}
	return d
}

// WakePeriod is how often the writer loop checks for pending snapshots.
// It falls back to half the debounce interval and never exceeds it.
func WakePeriod() time.Duration {
	interval := DebounceInterval()
	wake := millis(key.WriterWakeMs)
	if wake <= 0 || wake > interval {
		return interval / 2
	}
	return wake
}

// TickPeriod is the playback sampling period of the owning UI loop.
func TickPeriod() time.Duration {
	d := millis(key.SessionTickMs)
	if d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

// PrevRestartThreshold is the position after which "previous" restarts the current track.
func PrevRestartThreshold() float64 {
	return float64(viper.GetInt(key.SessionPrevRestartSeconds))
}

// ResumeWait returns how many times, and for how long each, the session waits
// for a freshly opened track to report its length before seeking.
func ResumeWait() (int, time.Duration) {
	return viper.GetInt(key.SessionResumeWaitRetries), millis(key.SessionResumeWaitMs)
}
