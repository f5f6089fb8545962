package robot_service

import (
	"fmt"
	"time"

	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	apperrors "github.com/iwtcode/robotAdapter/pkg/errors"
)

// recoverLocked восстанавливает motion-линк. Вызывается под s.mu:
// при первичном подключении, после каждой актуации схвата и при входе
// команды в сессию, находящуюся в FAULTED.
//
// Попытка - это установление соединения (если линк отсутствует) и проба
// живости тривиальным запросом. Неудачная попытка закрывает линк и ждет
// паузу, удваивающуюся с каждым разом. Исчерпание попыток переводит
// сессию в FAULTED; следующая команда запустит новый цикл.
func (s *Session) recoverLocked() error {
	s.setState(dmodels.StateRecovering)

	s.infoMu.Lock()
	s.recoveries++
	s.infoMu.Unlock()

	backoff := s.backoff
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			time.Sleep(backoff)
			backoff *= 2
		}

		if s.link == nil {
			link, err := s.dialer.Dial()
			if err != nil {
				lastErr = err
				s.logger.Warn("Recovery dial failed", "attempt", attempt, "error", err)
				continue
			}
			s.link = link
		}

		if s.link.IsAlive() {
			s.setState(dmodels.StateReady)
			s.logger.Info("Motion link recovered", "attempt", attempt)
			return nil
		}

		lastErr = fmt.Errorf("линк не прошел проверку живости")
		s.logger.Warn("Recovery liveness probe failed", "attempt", attempt)
		s.dropLinkLocked()
	}

	s.setState(dmodels.StateFaulted)
	s.logger.Error("Recovery attempts exhausted", "attempts", s.attempts, "error", lastErr)
	return s.fail(apperrors.Wrap(apperrors.KindRecoveryFailure,
		fmt.Sprintf("восстановление связи с роботом не удалось за %d попыток", s.attempts), lastErr))
}
