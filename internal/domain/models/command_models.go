package models

import (
	"fmt"
	"time"

	"github.com/iwtcode/robotAdapter/models"
	apperrors "github.com/iwtcode/robotAdapter/pkg/errors"
)

// CommandKind - закрытое множество видов команд протокола.
// Диспетчеризация по нему делается исчерпывающим switch: добавление
// нового вида команды требует правки всех точек разбора и исполнения.
type CommandKind string

const (
	CmdPickPiece     CommandKind = "pick_piece"
	CmdPlacePiece    CommandKind = "place_piece"
	CmdMoveHome      CommandKind = "move_home"
	CmdMovePose      CommandKind = "move_pose"
	CmdWait          CommandKind = "wait"
	CmdGetPose       CommandKind = "get_pose"
	CmdGetJoints     CommandKind = "get_joints"
	CmdListPositions CommandKind = "list_positions"
)

// Command - разобранная и проверенная команда клиента.
// Создается на каждое входящее сообщение и потребляется один раз.
type Command struct {
	Kind     CommandKind
	Piece    string
	Location string
	Pose     models.Pose
	Duration time.Duration
}

// FromRequest проверяет сырой запрос протокола и собирает команду.
// Любая проблема с запросом - это ProtocolError: соединение клиента
// остается открытым, оборудование не затрагивается.
func FromRequest(req *models.Request) (*Command, *apperrors.RobotError) {
	if req.Command == "" {
		return nil, apperrors.ErrNoCommand
	}

	cmd := &Command{Kind: CommandKind(req.Command)}

	switch cmd.Kind {
	case CmdPickPiece:
		if req.Piece == "" {
			return nil, apperrors.New(apperrors.KindProtocol, "не указано имя детали (piece)")
		}
		cmd.Piece = req.Piece

	case CmdPlacePiece:
		if req.Location == "" {
			return nil, apperrors.New(apperrors.KindProtocol, "не указано имя позиции (location)")
		}
		cmd.Location = req.Location

	case CmdMovePose:
		pose, err := models.PoseFromSlice(req.Pose)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindProtocol, err.Error(), err)
		}
		cmd.Pose = pose

	case CmdWait:
		if req.Duration <= 0 {
			return nil, apperrors.New(apperrors.KindProtocol,
				fmt.Sprintf("недопустимая длительность ожидания: %v", req.Duration))
		}
		cmd.Duration = time.Duration(req.Duration * float64(time.Second))

	case CmdMoveHome, CmdGetPose, CmdGetJoints, CmdListPositions:
		// Параметров нет.

	default:
		return nil, apperrors.ErrUnknownCommand
	}

	return cmd, nil
}

// Argument возвращает аргумент команды для журнала.
func (c *Command) Argument() string {
	switch c.Kind {
	case CmdPickPiece:
		return c.Piece
	case CmdPlacePiece:
		return c.Location
	case CmdMovePose:
		return fmt.Sprintf("%v", c.Pose.Slice())
	case CmdWait:
		return c.Duration.String()
	default:
		return ""
	}
}
