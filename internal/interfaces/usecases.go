package interfaces

import (
	"time"

	"github.com/iwtcode/robotAdapter/internal/domain/entities"
	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/models"
)

// Usecases - точка входа бизнес-логики для командного TCP-сервера
// и служебного HTTP API.
type Usecases interface {
	// Execute выполняет одну команду протокола и строит ответ.
	// Ошибки выполнения не возвращаются наверх: они уже упакованы
	// в ответ со статусом error.
	Execute(connID string, cmd *dmodels.Command) models.Response

	Session() dmodels.SessionInfo
	Recover() error
	Positions() []models.NamedPosition
	History(limit int) ([]entities.CommandRecord, error)

	StartPolling(interval time.Duration) error
	StopPolling() error
}
