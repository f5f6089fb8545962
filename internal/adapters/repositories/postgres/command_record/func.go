package command_record

import (
	"github.com/iwtcode/robotAdapter/internal/domain/entities"
)

func (r *CommandJournalImpl) Record(record *entities.CommandRecord) error {
	return r.db.Create(record).Error
}

// Recent возвращает последние записи журнала, новые первыми.
func (r *CommandJournalImpl) Recent(limit int) ([]entities.CommandRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []entities.CommandRecord
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
