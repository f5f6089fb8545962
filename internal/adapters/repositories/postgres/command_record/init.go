package command_record

import (
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"gorm.io/gorm"
)

type CommandJournalImpl struct {
	db *gorm.DB
}

func NewCommandJournal(db *gorm.DB) interfaces.CommandJournal {
	return &CommandJournalImpl{db: db}
}
