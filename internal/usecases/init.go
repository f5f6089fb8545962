package usecases

import "github.com/iwtcode/robotAdapter/internal/interfaces"

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases
func NewUsecases(
	robotSvc interfaces.RobotService,
	store interfaces.PoseStore,
	journal interfaces.CommandJournal,
	producer interfaces.EventProducer,
) interfaces.Usecases {
	return NewUsecase(robotSvc, store, journal, producer)
}
