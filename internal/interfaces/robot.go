package interfaces

import "github.com/iwtcode/robotAdapter/models"

// MotionLink - тонкий адаптер над подсистемой движения. Все вызовы
// блокирующие и без повторов: повторы и восстановление - забота сессии.
type MotionLink interface {
	MoveTo(pose models.Pose) error
	MoveJoints(joints []float64) error
	CurrentPose() (models.Pose, error)
	CurrentJoints() ([]float64, error)
	IsAlive() bool
	Close()
}

// MotionDialer устанавливает новый motion-линк. Используется при старте
// и в протоколе восстановления после команд схвата.
type MotionDialer interface {
	Dial() (MotionLink, error)
}

// GripperLink актуирует схват запуском именованной программы контроллера.
type GripperLink interface {
	Actuate(program string) error
}

// PoseStore - хранилище именованных позиций. Загружается один раз на
// старте и далее только читается, поэтому блокировок не требует.
type PoseStore interface {
	Lookup(name string) (models.Pose, bool)
	Names() []string
}
