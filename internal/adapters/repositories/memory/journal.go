// Пакет memory содержит журнал команд в памяти.
// Используется, когда Postgres отключен конфигурацией.
package memory

import (
	"sync"

	"github.com/iwtcode/robotAdapter/internal/domain/entities"
)

const defaultCapacity = 256

// Journal - кольцевой буфер последних записей о командах.
type Journal struct {
	mu      sync.Mutex
	records []entities.CommandRecord
	next    int
	full    bool
}

func NewJournal() *Journal {
	return &Journal{records: make([]entities.CommandRecord, defaultCapacity)}
}

// Record сохраняет запись, вытесняя самую старую при переполнении.
func (j *Journal) Record(record *entities.CommandRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records[j.next] = *record
	j.next = (j.next + 1) % len(j.records)
	if j.next == 0 {
		j.full = true
	}
	return nil
}

// Recent возвращает до limit последних записей, новые первыми.
func (j *Journal) Recent(limit int) ([]entities.CommandRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	size := j.next
	if j.full {
		size = len(j.records)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]entities.CommandRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (j.next - i + len(j.records)) % len(j.records)
		out = append(out, j.records[idx])
	}
	return out, nil
}
