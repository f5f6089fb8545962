package errors

import (
	"errors"
	"fmt"
)

// Стандартные сообщения служебного HTTP API.
const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
	NotFound            = "not_found"
)

// Kind классифицирует ошибку выполнения команды.
type Kind string

const (
	KindProtocol         Kind = "protocol_error"
	KindPositionNotFound Kind = "position_not_found"
	KindMotionFailure    Kind = "motion_failure"
	KindGripperFailure   Kind = "gripper_failure"
	KindGripperTimeout   Kind = "gripper_timeout"
	KindRecoveryFailure  Kind = "recovery_failure"
	KindConnectionLost   Kind = "connection_lost"
	KindInternal         Kind = "internal_error"
)

// RobotError представляет собой стандартизированную структуру ошибки
// для командного протокола и HTTP API.
type RobotError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"` // Сообщение для клиента
	Err     error  `json:"-"`       // Внутренняя ошибка, не для клиента
}

func (e *RobotError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *RobotError) Unwrap() error {
	return e.Err
}

// New создает новый экземпляр RobotError.
func New(kind Kind, message string) *RobotError {
	return &RobotError{Kind: kind, Message: message}
}

// Wrap оборачивает внутреннюю ошибку в RobotError.
func Wrap(kind Kind, message string, err error) *RobotError {
	return &RobotError{Kind: kind, Message: message, Err: err}
}

// KindOf извлекает Kind из цепочки ошибок. Для ошибок без
// классификации возвращает KindInternal.
func KindOf(err error) Kind {
	var re *RobotError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindInternal
}

// MessageOf возвращает сообщение для клиента. Для неклассифицированных
// ошибок отдается их собственный текст.
func MessageOf(err error) string {
	var re *RobotError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

// IsClientFault сообщает, вызвана ли ошибка самим запросом клиента.
// Такие ошибки не трогают оборудование и не ведут к повторным попыткам.
func IsClientFault(kind Kind) bool {
	return kind == KindProtocol || kind == KindPositionNotFound
}

var (
	ErrUnknownCommand = New(KindProtocol, "unknown command")
	ErrNoCommand      = New(KindProtocol, "no command specified")
)
