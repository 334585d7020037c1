package rack

import (
	"strconv"
	"strings"

	"github.com/jinjor/cvgen/src/dsp"
)

// FormatLevels renders levels as a report line, e.g. "levels 0 127 64".
func FormatLevels(levels []int) string {
	var b strings.Builder
	b.WriteString("levels")
	for _, v := range levels {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// FormatMeter renders one bar per channel so that the whole line fits in width
// columns.
func FormatMeter(levels []int, width int) string {
	if len(levels) == 0 {
		return ""
	}
	// "n[" + bar + "] "
	bar := width/len(levels) - 4
	if bar < 1 {
		bar = 1
	}
	var b strings.Builder
	for i, v := range levels {
		if v < 0 {
			v = 0
		}
		if v > dsp.MaxLevel {
			v = dsp.MaxLevel
		}
		filled := v * bar / dsp.MaxLevel
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('[')
		b.WriteString(strings.Repeat("#", filled))
		b.WriteString(strings.Repeat(" ", bar-filled))
		b.WriteString("] ")
	}
	return b.String()
}
