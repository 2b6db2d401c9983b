package cli

import (
	"fmt"
	"os"
)

const (
	Reset  = "\033[0m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

// enabled is a cached check for the NO_COLOR environment variable.
var enabled = checkColor()

func checkColor() bool {
	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor
}

// Enabled reports whether ANSI output is active.
func Enabled() bool {
	return enabled
}

// Style wraps text in a color code.
func Style(text string, colorCode string) string {
	if !enabled {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, Reset)
}

func CheckMark() string {
	return Style("✔", Green)
}

func CrossMark() string {
	return Style("✘", Red)
}

func WarningSign() string {
	return Style("⚠", Yellow)
}

func Arrow() string {
	return Style("➜", Blue)
}
