package interfaces

import "context"

// EventProducer публикует события телеметрии (команды, смены состояния,
// снимки статуса) во внешний брокер.
type EventProducer interface {
	Produce(ctx context.Context, key, value []byte) error
	Close() error
}
