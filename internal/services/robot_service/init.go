package robot_service

import (
	"time"

	"github.com/iwtcode/robotAdapter/internal/config"
	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
	"github.com/iwtcode/robotAdapter/models"
	"github.com/iwtcode/robotAdapter/robolink"
)

type robotService struct {
	session *Session
	poller  *Poller
}

func NewRobotService(
	cfg *config.AppConfig,
	dialer interfaces.MotionDialer,
	gripper interfaces.GripperLink,
	store interfaces.PoseStore,
	producer interfaces.EventProducer,
	logger *logging.Logger,
) interfaces.RobotService {
	session := NewSession(cfg, dialer, gripper, store, producer, logger)
	poller := NewPoller(session, producer, logger)

	return &robotService{
		session: session,
		poller:  poller,
	}
}

// --- Реализация методов интерфейса RobotService ---

func (s *robotService) Connect() error { return s.session.Connect() }

func (s *robotService) Shutdown() { s.session.Shutdown() }

func (s *robotService) Pick(name string) (*models.NamedPosition, error) { return s.session.Pick(name) }

func (s *robotService) Place(name string) (*models.NamedPosition, error) {
	return s.session.Place(name)
}

func (s *robotService) MoveHome() error { return s.session.MoveHome() }

func (s *robotService) MovePose(pose models.Pose) error { return s.session.MovePose(pose) }

func (s *robotService) Wait(d time.Duration) { s.session.Wait(d) }

func (s *robotService) GetPose() (models.Pose, error) { return s.session.GetPose() }

func (s *robotService) GetJoints() ([]float64, error) { return s.session.GetJoints() }

func (s *robotService) ListPositions() []string { return s.session.ListPositions() }

func (s *robotService) Snapshot() dmodels.SessionInfo { return s.session.Snapshot() }

func (s *robotService) Recover() error { return s.session.Recover() }

func (s *robotService) StartPolling(interval time.Duration) error {
	return s.poller.StartPolling(interval)
}

func (s *robotService) StopPolling() error { return s.poller.StopPolling() }

func (s *robotService) IsPollingActive() bool { return s.poller.IsPollingActive() }

// motionDialer устанавливает линк к драйверу движения по конфигурации.
type motionDialer struct {
	host    string
	port    int
	timeout time.Duration
}

func NewMotionDialer(cfg *config.AppConfig) interfaces.MotionDialer {
	return &motionDialer{
		host:    cfg.Robot.Host,
		port:    cfg.Robot.MotionPort,
		timeout: time.Duration(cfg.Robot.TimeoutMs) * time.Millisecond,
	}
}

func (d *motionDialer) Dial() (interfaces.MotionLink, error) {
	link, err := robolink.Dial(d.host, d.port, d.timeout)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// NewGripperLink создает Dashboard-клиента управления схватом.
func NewGripperLink(cfg *config.AppConfig) interfaces.GripperLink {
	return robolink.NewDashboard(cfg.Robot.Host, cfg.Robot.DashboardPort,
		time.Duration(cfg.Robot.TimeoutMs)*time.Millisecond)
}
