package robot_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/robotAdapter/internal/config"
	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
	"github.com/iwtcode/robotAdapter/models"
	apperrors "github.com/iwtcode/robotAdapter/pkg/errors"
	"github.com/iwtcode/robotAdapter/robolink"
)

// Session - единственная сессия управления роботом.
//
// mu сериализует работу с оборудованием: команда удерживает его от начала
// до конца, включая актуацию схвата и восстановление линка. Поэтому две
// команды никогда не перемежаются на уровне аппаратных вызовов.
//
// infoMu защищает наблюдаемые поля (состояние, счетчики, последняя поза)
// и никогда не берется на время аппаратного вызова: снимок состояния
// доступен даже пока команда выполняется.
type Session struct {
	dialer   interfaces.MotionDialer
	gripper  interfaces.GripperLink
	store    interfaces.PoseStore
	producer interfaces.EventProducer
	logger   *logging.Logger

	programs  robolink.ProgramSet
	clearance float64
	home      string
	attempts  int
	backoff   time.Duration

	mu   sync.Mutex
	link interfaces.MotionLink

	namesOnce sync.Once
	names     []string

	infoMu         sync.RWMutex
	state          dmodels.SessionState
	startedAt      time.Time
	commandsServed uint64
	recoveries     uint64
	lastCommand    string
	lastError      string
	lastPose       []float64
}

func NewSession(
	cfg *config.AppConfig,
	dialer interfaces.MotionDialer,
	gripper interfaces.GripperLink,
	store interfaces.PoseStore,
	producer interfaces.EventProducer,
	logger *logging.Logger,
) *Session {
	programs := robolink.ProgramsForModel(cfg.Robot.GripperModel)
	if cfg.Robot.OpenProgram != "" {
		programs.Open = cfg.Robot.OpenProgram
	}
	if cfg.Robot.CloseProgram != "" {
		programs.Close = cfg.Robot.CloseProgram
	}

	attempts := cfg.Robot.RecoveryAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Session{
		dialer:    dialer,
		gripper:   gripper,
		store:     store,
		producer:  producer,
		logger:    logger.WithPrefix("SESSION"),
		programs:  programs,
		clearance: cfg.Robot.ApproachClearanceMm,
		home:      cfg.Robot.HomePosition,
		attempts:  attempts,
		backoff:   time.Duration(cfg.Robot.RecoveryBackoffMs) * time.Millisecond,
		state:     dmodels.StateFaulted,
		startedAt: time.Now(),
	}
}

// Connect выполняет первичное установление motion-линка.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recoverLocked()
}

// Shutdown закрывает motion-линк. Сессия остается в FAULTED: следующая
// команда запустила бы восстановление, но вызывается это при остановке.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLinkLocked()
	s.setState(dmodels.StateFaulted)
	s.logger.Info("Session shut down")
}

// Pick забирает деталь из именованной позиции: подход сверху, открытие
// схвата, спуск, захват, отход. Неизвестное имя отвергается до каких-либо
// обращений к оборудованию.
func (s *Session) Pick(name string) (*models.NamedPosition, error) {
	target, ok := s.store.Lookup(name)
	if !ok {
		return nil, s.unknownPosition(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteCommand(fmt.Sprintf("pick_piece %s", name))

	if err := s.ensureReadyLocked(); err != nil {
		return nil, s.fail(err)
	}

	approach := target.WithZOffset(s.clearance)

	if err := s.moveLocked(approach); err != nil {
		return nil, s.fail(err)
	}
	if err := s.actuateLocked(s.programs.Open); err != nil {
		return nil, s.fail(err)
	}
	if err := s.moveLocked(target); err != nil {
		return nil, s.fail(err)
	}
	if err := s.actuateLocked(s.programs.Close); err != nil {
		return nil, s.fail(err)
	}
	if err := s.moveLocked(approach); err != nil {
		return nil, s.fail(err)
	}

	s.logger.Info("Pick completed", "piece", name)
	return &models.NamedPosition{Name: name, Pose: target}, nil
}

// Place кладет удерживаемую деталь в именованную позицию: подход сверху,
// спуск, открытие схвата, отход.
func (s *Session) Place(name string) (*models.NamedPosition, error) {
	target, ok := s.store.Lookup(name)
	if !ok {
		return nil, s.unknownPosition(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteCommand(fmt.Sprintf("place_piece %s", name))

	if err := s.ensureReadyLocked(); err != nil {
		return nil, s.fail(err)
	}

	approach := target.WithZOffset(s.clearance)

	if err := s.moveLocked(approach); err != nil {
		return nil, s.fail(err)
	}
	if err := s.moveLocked(target); err != nil {
		return nil, s.fail(err)
	}
	if err := s.actuateLocked(s.programs.Open); err != nil {
		return nil, s.fail(err)
	}
	if err := s.moveLocked(approach); err != nil {
		return nil, s.fail(err)
	}

	s.logger.Info("Place completed", "location", name)
	return &models.NamedPosition{Name: name, Pose: target}, nil
}

// MoveHome перемещает робота в домашнюю позицию из хранилища.
func (s *Session) MoveHome() error {
	target, ok := s.store.Lookup(s.home)
	if !ok {
		return s.unknownPosition(s.home)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteCommand("move_home")

	if err := s.ensureReadyLocked(); err != nil {
		return s.fail(err)
	}
	if err := s.moveLocked(target); err != nil {
		return s.fail(err)
	}

	s.logger.Info("Moved home", "position", s.home)
	return nil
}

// MovePose перемещает инструмент в произвольную позу.
func (s *Session) MovePose(pose models.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteCommand("move_pose")

	if err := s.ensureReadyLocked(); err != nil {
		return s.fail(err)
	}
	if err := s.moveLocked(pose); err != nil {
		return s.fail(err)
	}
	return nil
}

// Wait приостанавливает вызывающего, не удерживая оборудование:
// другие клиенты продолжают выполнять команды.
func (s *Session) Wait(d time.Duration) {
	s.noteCommand(fmt.Sprintf("wait %v", d))
	time.Sleep(d)
}

// GetPose возвращает текущую позу инструмента.
func (s *Session) GetPose() (models.Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteCommand("get_pose")

	if err := s.ensureReadyLocked(); err != nil {
		return models.Pose{}, s.fail(err)
	}

	pose, err := s.link.CurrentPose()
	if err != nil {
		return models.Pose{}, s.fail(s.classifyMotion(err, "запрос текущей позы"))
	}
	s.notePose(pose)
	return pose, nil
}

// GetJoints возвращает текущие углы суставов.
func (s *Session) GetJoints() ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteCommand("get_joints")

	if err := s.ensureReadyLocked(); err != nil {
		return nil, s.fail(err)
	}

	joints, err := s.link.CurrentJoints()
	if err != nil {
		return nil, s.fail(s.classifyMotion(err, "запрос углов суставов"))
	}
	return joints, nil
}

// LivePose читает текущую позу для фонового опроса. В отличие от GetPose
// не запускает восстановление и не засчитывается как команда клиента.
func (s *Session) LivePose() (models.Pose, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.link == nil || s.State() != dmodels.StateReady {
		return models.Pose{}, false
	}
	pose, err := s.link.CurrentPose()
	if err != nil {
		return models.Pose{}, false
	}
	s.notePose(pose)
	return pose, true
}

// ListPositions возвращает имена известных позиций без обращения к
// роботу. Хранилище после загрузки неизменно, список снимается один раз.
func (s *Session) ListPositions() []string {
	s.noteCommand("list_positions")
	s.namesOnce.Do(func() {
		s.names = s.store.Names()
	})
	return s.names
}

// Snapshot возвращает срез состояния сессии. Не блокируется идущей командой.
func (s *Session) Snapshot() dmodels.SessionInfo {
	s.infoMu.RLock()
	defer s.infoMu.RUnlock()

	info := dmodels.SessionInfo{
		State:          s.state,
		StartedAt:      s.startedAt,
		CommandsServed: s.commandsServed,
		Recoveries:     s.recoveries,
		LastCommand:    s.lastCommand,
		LastError:      s.lastError,
	}
	if s.lastPose != nil {
		info.LastPose = append([]float64(nil), s.lastPose...)
	}
	return info
}

// Recover запускает цикл восстановления вручную (служебный API).
func (s *Session) Recover() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recoverLocked()
}

// State возвращает текущее состояние сессии.
func (s *Session) State() dmodels.SessionState {
	s.infoMu.RLock()
	defer s.infoMu.RUnlock()
	return s.state
}

// --- внутреннее, под s.mu ---

// ensureReadyLocked гарантирует валидный motion-линк перед командой
// движения. Из FAULTED это означает еще один цикл восстановления.
func (s *Session) ensureReadyLocked() error {
	if s.link != nil && s.State() == dmodels.StateReady {
		return nil
	}
	return s.recoverLocked()
}

// moveLocked выполняет одно движение и классифицирует ошибку.
func (s *Session) moveLocked(pose models.Pose) error {
	if err := s.link.MoveTo(pose); err != nil {
		return s.classifyMotion(err, fmt.Sprintf("движение в позу %v", pose.Slice()))
	}
	s.notePose(pose)
	return nil
}

// classifyMotion разделяет отказ контроллера (линк жив, команда
// отвергнута) и транспортную ошибку (линк мертв, сессия в FAULTED).
func (s *Session) classifyMotion(err error, action string) error {
	if errors.Is(err, robolink.ErrRemote) {
		s.logger.Warn("Controller rejected motion command", "error", err)
		return apperrors.Wrap(apperrors.KindMotionFailure, fmt.Sprintf("%s: отказ контроллера", action), err)
	}

	s.logger.Error("Motion link lost", "error", err)
	s.dropLinkLocked()
	s.setState(dmodels.StateFaulted)
	return apperrors.Wrap(apperrors.KindConnectionLost, fmt.Sprintf("%s: потеряна связь с роботом", action), err)
}

// actuateLocked запускает программу схвата и затем безусловно
// восстанавливает motion-линк: после Dashboard-команды канал движения
// протухает, даже если сама программа завершилась ошибкой.
func (s *Session) actuateLocked(program string) error {
	s.setState(dmodels.StateGripperBusy)
	s.logger.Info("Actuating gripper", "program", program)

	// Кешированная поза после актуации недостоверна.
	s.infoMu.Lock()
	s.lastPose = nil
	s.infoMu.Unlock()

	gripErr := s.gripper.Actuate(program)
	recErr := s.recoverLocked()

	if gripErr != nil {
		if robolink.IsTimeout(gripErr) {
			return apperrors.Wrap(apperrors.KindGripperTimeout,
				fmt.Sprintf("программа схвата '%s' не ответила вовремя", program), gripErr)
		}
		return apperrors.Wrap(apperrors.KindGripperFailure,
			fmt.Sprintf("программа схвата '%s' завершилась ошибкой", program), gripErr)
	}
	return recErr
}

func (s *Session) dropLinkLocked() {
	if s.link != nil {
		s.link.Close()
		s.link = nil
	}
}

// --- наблюдаемые поля, под s.infoMu ---

func (s *Session) setState(to dmodels.SessionState) {
	s.infoMu.Lock()
	from := s.state
	s.state = to
	s.infoMu.Unlock()

	if from == to {
		return
	}
	s.logger.Info("Session state changed", "from", from, "to", to)
	s.publishTransition(from, to)
}

func (s *Session) publishTransition(from, to dmodels.SessionState) {
	event := dmodels.TransitionEvent{
		Type:      dmodels.EventTransition,
		From:      from,
		To:        to,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	go func() {
		if err := s.producer.Produce(context.Background(), []byte(dmodels.EventTransition), payload); err != nil {
			s.logger.Warn("Failed to publish transition event", "error", err)
		}
	}()
}

func (s *Session) noteCommand(cmd string) {
	s.infoMu.Lock()
	s.lastCommand = cmd
	s.commandsServed++
	s.infoMu.Unlock()
}

func (s *Session) notePose(pose models.Pose) {
	s.infoMu.Lock()
	s.lastPose = pose.Slice()
	s.infoMu.Unlock()
}

// fail запоминает последнюю ошибку и возвращает ее же.
func (s *Session) fail(err error) error {
	s.infoMu.Lock()
	s.lastError = err.Error()
	s.infoMu.Unlock()
	return err
}

func (s *Session) unknownPosition(name string) error {
	return s.fail(apperrors.New(apperrors.KindPositionNotFound,
		fmt.Sprintf("позиция '%s' не найдена", name)))
}
