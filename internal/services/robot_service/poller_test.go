package robot_service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
)

type captureProducer struct {
	mu     sync.Mutex
	events [][]byte
}

func (p *captureProducer) Produce(ctx context.Context, key, value []byte) error {
	p.mu.Lock()
	p.events = append(p.events, append([]byte(nil), value...))
	p.mu.Unlock()
	return nil
}

func (p *captureProducer) Close() error { return nil }

func (p *captureProducer) statusEvents(t *testing.T) []dmodels.StatusEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []dmodels.StatusEvent
	for _, raw := range p.events {
		var event dmodels.StatusEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		if event.Type == dmodels.EventStatus {
			out = append(out, event)
		}
	}
	return out
}

func TestPollerPublishesStatusEvents(t *testing.T) {
	hw := &fakeHardware{}
	producer := &captureProducer{}

	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
	t.Cleanup(func() { logger.Close() })

	session := NewSession(testConfig(), &fakeDialer{hw: hw}, &fakeGripper{hw: hw}, fakePoses{}, producer, logger)
	require.NoError(t, session.Connect())

	poller := NewPoller(session, producer, logger)
	require.NoError(t, poller.StartPolling(10*time.Millisecond))
	require.True(t, poller.IsPollingActive())

	require.Eventually(t, func() bool {
		return len(producer.statusEvents(t)) >= 2
	}, time.Second, 10*time.Millisecond, "События статуса должны публиковаться периодически")

	require.NoError(t, poller.StopPolling())
	require.False(t, poller.IsPollingActive())

	events := producer.statusEvents(t)
	require.Equal(t, dmodels.StateReady, events[0].Session.State)
	require.Equal(t, []float64{1, 2, 3, 0, 0, 0}, events[0].Pose,
		"Для READY-сессии событие должно содержать живую позу")
}

func TestPollerRejectsDoubleStart(t *testing.T) {
	hw := &fakeHardware{}
	producer := &captureProducer{}

	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
	t.Cleanup(func() { logger.Close() })

	session := NewSession(testConfig(), &fakeDialer{hw: hw}, &fakeGripper{hw: hw}, fakePoses{}, producer, logger)
	poller := NewPoller(session, producer, logger)

	require.Error(t, poller.StopPolling(), "Остановка без запуска должна быть ошибкой")
	require.Error(t, poller.StartPolling(0), "Нулевой интервал должен отвергаться")

	require.NoError(t, poller.StartPolling(time.Minute))
	require.Error(t, poller.StartPolling(time.Minute), "Повторный запуск должен отвергаться")
	require.NoError(t, poller.StopPolling())
}
