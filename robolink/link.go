// Пакет robolink реализует сеансовый уровень подключения к контроллеру
// робота: линк драйвера движения и Dashboard-канал управления схватом.
package robolink

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iwtcode/robotAdapter/models"
)

// ErrRemote означает, что контроллер ответил отказом на команду.
// Транспортные ошибки (обрыв, таймаут) возвращаются как есть:
// по ним владелец линка решает, жив ли он вообще.
var ErrRemote = errors.New("controller rejected command")

// Link - одно живое подключение к драйверу движения. Все вызовы
// блокирующие, с дедлайном на каждый обмен. Политики повторов здесь
// нет: восстановлением соединения занимается владелец сессии.
type Link struct {
	mu      sync.Mutex
	conn    net.Conn
	rd      *bufio.Reader
	addr    string
	timeout time.Duration
}

// Dial устанавливает подключение к драйверу движения.
func Dial(host string, port int, timeout time.Duration) (*Link, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("подключение к драйверу движения %s не удалось: %w", addr, err)
	}
	return &Link{
		conn:    conn,
		rd:      bufio.NewReader(conn),
		addr:    addr,
		timeout: timeout,
	}, nil
}

// exchange отправляет одну строку команды и читает одну строку ответа.
func (l *Link) exchange(cmd string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return "", fmt.Errorf("линк %s уже закрыт", l.addr)
	}

	deadline := time.Now().Add(l.timeout)
	if err := l.conn.SetDeadline(deadline); err != nil {
		return "", err
	}

	if _, err := l.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("отправка команды драйверу: %w", err)
	}

	line, err := l.rd.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("чтение ответа драйвера: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// command выполняет команду, от которой ожидается ответ OK.
func (l *Link) command(cmd string) error {
	reply, err := l.exchange(cmd)
	if err != nil {
		return err
	}
	if reply == "OK" {
		return nil
	}
	if msg, found := strings.CutPrefix(reply, "ERR "); found {
		return fmt.Errorf("%w: %s", ErrRemote, msg)
	}
	return fmt.Errorf("%w: неожиданный ответ %q", ErrRemote, reply)
}

// MoveTo перемещает инструмент в заданную позу и блокируется до
// завершения движения либо отказа контроллера.
func (l *Link) MoveTo(p models.Pose) error {
	return l.command("MOVEP " + formatFloats(p.Slice()))
}

// MoveJoints перемещает робота в заданную конфигурацию суставов (градусы).
func (l *Link) MoveJoints(joints []float64) error {
	if len(joints) != 6 {
		return fmt.Errorf("ожидается 6 углов суставов, получено %d", len(joints))
	}
	return l.command("MOVEJ " + formatFloats(joints))
}

// CurrentPose запрашивает текущую позу инструмента.
func (l *Link) CurrentPose() (models.Pose, error) {
	reply, err := l.exchange("GETPOSE")
	if err != nil {
		return models.Pose{}, err
	}
	values, err := parseReply(reply, "POSE", 6)
	if err != nil {
		return models.Pose{}, err
	}
	return models.PoseFromSlice(values)
}

// CurrentJoints запрашивает текущие углы суставов.
func (l *Link) CurrentJoints() ([]float64, error) {
	reply, err := l.exchange("GETJNT")
	if err != nil {
		return nil, err
	}
	return parseReply(reply, "JNT", 6)
}

// IsAlive - проверка живости линка тривиальным запросом углов суставов.
// Именно этот вызов использует протокол восстановления после команд схвата.
func (l *Link) IsAlive() bool {
	_, err := l.CurrentJoints()
	return err == nil
}

// Close закрывает соединение. Повторный вызов безопасен.
func (l *Link) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// parseReply разбирает ответ вида "<tag> v1 ... vN".
func parseReply(reply, tag string, count int) ([]float64, error) {
	fields := strings.Fields(reply)
	if len(fields) == 0 || fields[0] != tag {
		if msg, found := strings.CutPrefix(reply, "ERR "); found {
			return nil, fmt.Errorf("%w: %s", ErrRemote, msg)
		}
		return nil, fmt.Errorf("%w: неожиданный ответ %q", ErrRemote, reply)
	}
	if len(fields)-1 != count {
		return nil, fmt.Errorf("%w: ожидалось %d значений в ответе %q", ErrRemote, count, reply)
	}

	values := make([]float64, count)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: нечисловое значение %q в ответе %q", ErrRemote, f, reply)
		}
		values[i] = v
	}
	return values, nil
}
