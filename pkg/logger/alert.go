package logger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ekant1999/StrategyEvolve/pkg/common"
	"go.uber.org/zap/zapcore"
)

// AlertNotifier delivers a formatted alert, e.g. to a Telegram chat.
type AlertNotifier interface {
	SendAlert(ctx context.Context, message string) error
}

// AlertCore wraps a core and forwards entries carrying the send_alert flag.
type AlertCore struct {
	core     zapcore.Core
	notifier AlertNotifier
	minLevel zapcore.Level
	timeout  time.Duration
}

func NewAlertCore(core zapcore.Core, notifier AlertNotifier, minLevel zapcore.Level) *AlertCore {
	return &AlertCore{core: core, notifier: notifier, minLevel: minLevel, timeout: 10 * time.Second}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		notifier: a.notifier,
		minLevel: a.minLevel,
		timeout:  a.timeout,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if a.notifier != nil && entry.Level >= a.minLevel && hasAlertFlag(fields) {
		// async so logging never blocks on the network
		go a.send(entry, fields)
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) send(entry zapcore.Entry, fields []zapcore.Field) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	_ = a.notifier.SendAlert(ctx, FormatAlert(entry, fields))
}

func hasAlertFlag(fields []zapcore.Field) bool {
	for _, f := range fields {
		if f.Key == common.KEY_LOG_HOOK_SEND_ALERT && f.Type == zapcore.BoolType && f.Integer == 1 {
			return true
		}
	}
	return false
}

// FormatAlert renders an entry and its fields as an HTML message.
func FormatAlert(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if f.Key == common.KEY_LOG_HOOK_SEND_ALERT {
			continue
		}
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚨 <b>%s Alert</b>\n\n<b>Message:</b> %s\n", entry.Level.CapitalString(), entry.Message))
	if len(keys) > 0 {
		sb.WriteString("\n<b>Fields:</b>\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("• %s: %v\n", k, enc.Fields[k]))
		}
	}
	sb.WriteString(fmt.Sprintf("\n<b>Time:</b> %s", entry.Time.UTC().Format("2006-01-02 15:04:05")))
	return sb.String()
}
