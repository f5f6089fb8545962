package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iwtcode/robotAdapter/internal/adapters/repositories/memory"
	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/services/kafka"
	"github.com/iwtcode/robotAdapter/models"
	apperrors "github.com/iwtcode/robotAdapter/pkg/errors"
)

// fakeRobot реализует RobotService поверх таблицы позиций в памяти.
type fakeRobot struct {
	poses   map[string]models.Pose
	pickErr error
}

func (f *fakeRobot) Connect() error { return nil }
func (f *fakeRobot) Shutdown()      {}

func (f *fakeRobot) Pick(name string) (*models.NamedPosition, error) {
	if f.pickErr != nil {
		return nil, f.pickErr
	}
	pose, ok := f.poses[name]
	if !ok {
		return nil, apperrors.New(apperrors.KindPositionNotFound, fmt.Sprintf("позиция '%s' не найдена", name))
	}
	return &models.NamedPosition{Name: name, Pose: pose}, nil
}

func (f *fakeRobot) Place(name string) (*models.NamedPosition, error) { return f.Pick(name) }
func (f *fakeRobot) MoveHome() error                                  { return nil }
func (f *fakeRobot) MovePose(pose models.Pose) error                  { return nil }
func (f *fakeRobot) Wait(d time.Duration)                             {}
func (f *fakeRobot) GetPose() (models.Pose, error)                    { return models.Pose{Z: 42}, nil }
func (f *fakeRobot) GetJoints() ([]float64, error)                    { return []float64{1, 2, 3, 4, 5, 6}, nil }

func (f *fakeRobot) ListPositions() []string {
	names := make([]string, 0, len(f.poses))
	for name := range f.poses {
		names = append(names, name)
	}
	return names
}

func (f *fakeRobot) Snapshot() dmodels.SessionInfo { return dmodels.SessionInfo{State: dmodels.StateReady} }
func (f *fakeRobot) Recover() error                { return nil }

func (f *fakeRobot) StartPolling(interval time.Duration) error { return nil }
func (f *fakeRobot) StopPolling() error                        { return nil }
func (f *fakeRobot) IsPollingActive() bool                     { return false }

type fakeStore map[string]models.Pose

func (s fakeStore) Lookup(name string) (models.Pose, bool) {
	pose, ok := s[name]
	return pose, ok
}

func (s fakeStore) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}

func newTestUsecase(robot *fakeRobot, journal *memory.Journal) *Usecase {
	store := fakeStore(robot.poses)
	return NewUsecase(robot, store, journal, kafka.NewNoopProducer()).(*Usecase)
}

func TestExecutePickBuildsEcho(t *testing.T) {
	robot := &fakeRobot{poses: map[string]models.Pose{
		"piece 1": {X: 10, Y: 20, Z: 30, Rx: 1, Ry: 2, Rz: 3},
	}}
	uc := newTestUsecase(robot, memory.NewJournal())

	resp := uc.Execute("conn-1", &dmodels.Command{Kind: dmodels.CmdPickPiece, Piece: "piece 1"})

	require.Equal(t, models.StatusSuccess, resp.Status)
	require.Equal(t, "pick_piece", resp.Command)
	require.Equal(t, "piece 1", resp.Piece)
	require.Equal(t, []float64{10, 20, 30}, resp.Position)
	require.Equal(t, []float64{1, 2, 3}, resp.Orientation)
}

func TestExecuteFailurePackagesError(t *testing.T) {
	robot := &fakeRobot{poses: map[string]models.Pose{}}
	uc := newTestUsecase(robot, memory.NewJournal())

	resp := uc.Execute("conn-1", &dmodels.Command{Kind: dmodels.CmdPickPiece, Piece: "ghost"})

	require.Equal(t, models.StatusError, resp.Status)
	require.Contains(t, resp.Message, "не найдена")
}

func TestExecuteJournalsEveryCommand(t *testing.T) {
	robot := &fakeRobot{poses: map[string]models.Pose{"piece 1": {Z: 1}}}
	journal := memory.NewJournal()
	uc := newTestUsecase(robot, journal)

	uc.Execute("conn-1", &dmodels.Command{Kind: dmodels.CmdPickPiece, Piece: "piece 1"})
	uc.Execute("conn-1", &dmodels.Command{Kind: dmodels.CmdPickPiece, Piece: "ghost"})

	records, err := journal.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "failed", records[0].Status, "Последней записью должна быть ошибка")
	require.Equal(t, "ghost", records[0].Argument)
	require.Equal(t, "completed", records[1].Status)
	require.Equal(t, "conn-1", records[1].ConnectionID)
	require.NotEmpty(t, records[1].ID)
}

func TestExecuteQueries(t *testing.T) {
	robot := &fakeRobot{poses: map[string]models.Pose{}}
	uc := newTestUsecase(robot, memory.NewJournal())

	resp := uc.Execute("c", &dmodels.Command{Kind: dmodels.CmdGetPose})
	require.Equal(t, []float64{0, 0, 42, 0, 0, 0}, resp.Pose)

	resp = uc.Execute("c", &dmodels.Command{Kind: dmodels.CmdGetJoints})
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, resp.Joints)
}

func TestPositionsReturnPoses(t *testing.T) {
	robot := &fakeRobot{poses: map[string]models.Pose{"home": {Z: 300}}}
	uc := newTestUsecase(robot, memory.NewJournal())

	positions := uc.Positions()
	require.Len(t, positions, 1)
	require.Equal(t, "home", positions[0].Name)
	require.Equal(t, models.Pose{Z: 300}, positions[0].Pose)
}
