package interfaces

import (
	"time"

	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/models"
)

// RobotService - это агрегирующий интерфейс оркестрации робота:
// операции над сессией плюс фоновый опрос состояния.
type RobotService interface {
	RobotSession
	StatusPoller
}

// RobotSession - операции единственной сессии робота. Каждая операция
// выполняется до конца (включая необходимое восстановление) до возврата;
// одновременно с оборудованием работает не более одной команды.
type RobotSession interface {
	Connect() error
	Shutdown()

	Pick(name string) (*models.NamedPosition, error)
	Place(name string) (*models.NamedPosition, error)
	MoveHome() error
	MovePose(pose models.Pose) error
	Wait(d time.Duration)
	GetPose() (models.Pose, error)
	GetJoints() ([]float64, error)
	ListPositions() []string

	Snapshot() dmodels.SessionInfo
	Recover() error
}

// StatusPoller управляет фоновой публикацией снимков состояния.
type StatusPoller interface {
	StartPolling(interval time.Duration) error
	StopPolling() error
	IsPollingActive() bool
}
