package robot_service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
)

type activePoll struct {
	ticker *time.Ticker
	done   chan bool
}

// Poller периодически публикует снимки состояния сессии в телеметрию.
// Опрос один: сессия робота единственная.
type Poller struct {
	session  *Session
	producer interfaces.EventProducer
	logger   *logging.Logger

	pollMutex sync.Mutex
	poll      *activePoll
}

func NewPoller(session *Session, producer interfaces.EventProducer, logger *logging.Logger) *Poller {
	return &Poller{
		session:  session,
		producer: producer,
		logger:   logger.WithPrefix("POLLER"),
	}
}

func (p *Poller) IsPollingActive() bool {
	p.pollMutex.Lock()
	defer p.pollMutex.Unlock()
	return p.poll != nil
}

func (p *Poller) StartPolling(interval time.Duration) error {
	p.pollMutex.Lock()
	defer p.pollMutex.Unlock()

	if p.poll != nil {
		return fmt.Errorf("опрос состояния уже запущен")
	}
	if interval <= 0 {
		return fmt.Errorf("недопустимый интервал опроса: %v", interval)
	}

	ticker := time.NewTicker(interval)
	done := make(chan bool)
	p.poll = &activePoll{ticker: ticker, done: done}

	go p.run(ticker, done, interval)
	return nil
}

func (p *Poller) StopPolling() error {
	p.pollMutex.Lock()
	defer p.pollMutex.Unlock()

	if p.poll == nil {
		return fmt.Errorf("опрос состояния не запущен")
	}
	p.poll.ticker.Stop()
	p.poll.done <- true
	close(p.poll.done)
	p.poll = nil
	p.logger.Info("Polling stopped")
	return nil
}

func (p *Poller) run(ticker *time.Ticker, done chan bool, interval time.Duration) {
	p.logger.Info("Starting polling goroutine", "interval", interval)
	defer p.logger.Info("Polling goroutine stopped")

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.publishStatus()
		}
	}
}

// publishStatus снимает состояние сессии и отправляет его в телеметрию.
// Живая поза запрашивается только когда сессия READY: тогда запрос
// встанет в очередь за текущей командой, а не спровоцирует восстановление.
func (p *Poller) publishStatus() {
	info := p.session.Snapshot()

	event := dmodels.StatusEvent{
		Type:      dmodels.EventStatus,
		Session:   info,
		Timestamp: time.Now(),
	}

	if info.State == dmodels.StateReady {
		if pose, ok := p.session.LivePose(); ok {
			event.Pose = pose.Slice()
			event.Session = p.session.Snapshot()
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize status event", "error", err)
		return
	}
	if err := p.producer.Produce(context.Background(), []byte(dmodels.EventStatus), payload); err != nil {
		p.logger.Error("Failed to send status event to Kafka", "error", err)
	}
}
