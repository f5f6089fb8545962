package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/iwtcode/robotAdapter/internal/domain/entities"
	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"github.com/iwtcode/robotAdapter/models"
	apperrors "github.com/iwtcode/robotAdapter/pkg/errors"
)

type Usecase struct {
	robotSvc interfaces.RobotService
	store    interfaces.PoseStore
	journal  interfaces.CommandJournal
	producer interfaces.EventProducer
}

func NewUsecase(
	robotSvc interfaces.RobotService,
	store interfaces.PoseStore,
	journal interfaces.CommandJournal,
	producer interfaces.EventProducer,
) interfaces.Usecases {
	return &Usecase{
		robotSvc: robotSvc,
		store:    store,
		journal:  journal,
		producer: producer,
	}
}

// Execute выполняет одну команду протокола, журналирует результат и
// публикует событие телеметрии. Ответ всегда валиден: ошибки выполнения
// упаковываются в статус error, а не возвращаются наверх.
func (u *Usecase) Execute(connID string, cmd *dmodels.Command) models.Response {
	started := time.Now()
	resp := u.dispatch(cmd)
	u.report(connID, cmd, resp, time.Since(started))
	return resp
}

func (u *Usecase) dispatch(cmd *dmodels.Command) models.Response {
	resp := models.Response{
		Status:  models.StatusSuccess,
		Command: string(cmd.Kind),
	}

	switch cmd.Kind {
	case dmodels.CmdPickPiece:
		named, err := u.robotSvc.Pick(cmd.Piece)
		if err != nil {
			return u.failure(cmd, err)
		}
		resp.Piece = named.Name
		resp.Position = named.Pose.Position()
		resp.Orientation = named.Pose.Orientation()

	case dmodels.CmdPlacePiece:
		named, err := u.robotSvc.Place(cmd.Location)
		if err != nil {
			return u.failure(cmd, err)
		}
		resp.Location = named.Name
		resp.Position = named.Pose.Position()
		resp.Orientation = named.Pose.Orientation()

	case dmodels.CmdMoveHome:
		if err := u.robotSvc.MoveHome(); err != nil {
			return u.failure(cmd, err)
		}

	case dmodels.CmdMovePose:
		if err := u.robotSvc.MovePose(cmd.Pose); err != nil {
			return u.failure(cmd, err)
		}
		resp.Pose = cmd.Pose.Slice()

	case dmodels.CmdWait:
		u.robotSvc.Wait(cmd.Duration)

	case dmodels.CmdGetPose:
		pose, err := u.robotSvc.GetPose()
		if err != nil {
			return u.failure(cmd, err)
		}
		resp.Pose = pose.Slice()

	case dmodels.CmdGetJoints:
		joints, err := u.robotSvc.GetJoints()
		if err != nil {
			return u.failure(cmd, err)
		}
		resp.Joints = joints

	case dmodels.CmdListPositions:
		resp.Positions = u.robotSvc.ListPositions()

	default:
		return u.failure(cmd, apperrors.ErrUnknownCommand)
	}

	return resp
}

func (u *Usecase) failure(cmd *dmodels.Command, err error) models.Response {
	return models.Response{
		Status:  models.StatusError,
		Command: string(cmd.Kind),
		Message: apperrors.MessageOf(err),
	}
}

// report сохраняет запись в журнал и публикует CommandEvent.
// Ошибки журналирования не влияют на ответ клиенту.
func (u *Usecase) report(connID string, cmd *dmodels.Command, resp models.Response, elapsed time.Duration) {
	status := entities.StatusCompleted
	if resp.Status == models.StatusError {
		status = entities.StatusFailed
	}

	record := &entities.CommandRecord{
		ID:           uuid.New().String(),
		Command:      string(cmd.Kind),
		Argument:     cmd.Argument(),
		Status:       status,
		Message:      resp.Message,
		DurationMs:   elapsed.Milliseconds(),
		ConnectionID: connID,
		CreatedAt:    time.Now(),
	}
	_ = u.journal.Record(record)

	event := dmodels.CommandEvent{
		Type:         dmodels.EventCommand,
		ID:           record.ID,
		Command:      record.Command,
		Argument:     record.Argument,
		Status:       record.Status,
		Message:      record.Message,
		DurationMs:   record.DurationMs,
		ConnectionID: connID,
		Timestamp:    record.CreatedAt,
	}
	if payload, err := json.Marshal(event); err == nil {
		go func() {
			_ = u.producer.Produce(context.Background(), []byte(dmodels.EventCommand), payload)
		}()
	}
}

func (u *Usecase) Session() dmodels.SessionInfo {
	return u.robotSvc.Snapshot()
}

func (u *Usecase) Recover() error {
	return u.robotSvc.Recover()
}

// Positions возвращает именованные позиции вместе с позами.
func (u *Usecase) Positions() []models.NamedPosition {
	names := u.store.Names()
	out := make([]models.NamedPosition, 0, len(names))
	for _, name := range names {
		pose, _ := u.store.Lookup(name)
		out = append(out, models.NamedPosition{Name: name, Pose: pose})
	}
	return out
}

func (u *Usecase) History(limit int) ([]entities.CommandRecord, error) {
	return u.journal.Recent(limit)
}

func (u *Usecase) StartPolling(interval time.Duration) error {
	return u.robotSvc.StartPolling(interval)
}

func (u *Usecase) StopPolling() error {
	return u.robotSvc.StopPolling()
}
