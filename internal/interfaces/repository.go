package interfaces

import "github.com/iwtcode/robotAdapter/internal/domain/entities"

// CommandJournal хранит записи о выполненных командах.
type CommandJournal interface {
	Record(record *entities.CommandRecord) error
	Recent(limit int) ([]entities.CommandRecord, error)
}
