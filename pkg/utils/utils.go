package utils

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/ekant1999/StrategyEvolve/pkg/logger"
)

// CleanToValidUTF8 drops invalid byte sequences from text returned by external APIs.
func CleanToValidUTF8(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		buf.WriteRune(r)
		i += size
	}
	return buf.String()
}

func SafeText(text string) string {
	return CleanToValidUTF8(html.UnescapeString(text))
}

// Truncate cuts s to at most n runes and appends an ellipsis when it did.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

func FormatPercentage(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}
