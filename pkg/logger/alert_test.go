package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	sent     chan struct{}
}

func (n *recordingNotifier) SendAlert(_ context.Context, message string) error {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
	n.sent <- struct{}{}
	return nil
}

func TestAlertCore_ForwardsFlaggedEntries(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	notifier := &recordingNotifier{sent: make(chan struct{}, 4)}
	log := (&Logger{zap.New(obs)}).WithAlertCore(notifier, zapcore.WarnLevel)

	log.ErrorContext(context.Background(), "plain error")
	log.ErrorContextWithAlert(context.Background(), "evolution failed", StringField("strategy_id", "s-1"), ErrorField(errors.New("boom")))

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not sent")
	}

	assert.Equal(t, 2, logs.Len())
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "evolution failed")
	assert.Contains(t, notifier.messages[0], "strategy_id: s-1")
	assert.NotContains(t, notifier.messages[0], "send_alert")
}

func TestAlertCore_RespectsMinLevel(t *testing.T) {
	obs, _ := observer.New(zapcore.DebugLevel)
	notifier := &recordingNotifier{sent: make(chan struct{}, 4)}
	log := (&Logger{zap.New(obs)}).WithAlertCore(notifier, zapcore.ErrorLevel)

	log.WarnContextWithAlert(context.Background(), "below threshold")

	select {
	case <-notifier.sent:
		t.Fatal("warn alert should not be forwarded")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)

	log, err := New("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
