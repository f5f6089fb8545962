package robolink

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrProgramRejected означает, что Dashboard-сервер отказался загрузить
// или запустить программу (например, файл отсутствует на контроллере).
var ErrProgramRejected = errors.New("dashboard rejected program")

// Dashboard актуирует схват загрузкой и запуском именованной программы
// через Dashboard-сервер контроллера. Подключение устанавливается на
// каждую актуацию заново: контроллер не держит этот канал открытым.
//
// Важно: после любой команды через Dashboard контроллер на короткое
// время перестает отвечать по каналу движения. Это свойство железа,
// восстановление motion-линка выполняет владелец сессии.
type Dashboard struct {
	addr    string
	timeout time.Duration
	settle  time.Duration // пауза между load и play
}

// NewDashboard создает клиента Dashboard-сервера.
func NewDashboard(host string, port int, timeout time.Duration) *Dashboard {
	return &Dashboard{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
		settle:  time.Second,
	}
}

// SetSettle переопределяет паузу между load и play.
func (d *Dashboard) SetSettle(settle time.Duration) {
	d.settle = settle
}

// Actuate загружает и запускает программу program на контроллере.
// Возвращает управление после подтверждения запуска; завершение самой
// программы схвата контроллер не транслирует.
func (d *Dashboard) Actuate(program string) error {
	conn, err := net.DialTimeout("tcp", d.addr, d.timeout)
	if err != nil {
		return fmt.Errorf("подключение к Dashboard %s не удалось: %w", d.addr, err)
	}
	defer conn.Close()

	rd := bufio.NewReader(conn)

	// Сервер первым делом шлет приветственную строку.
	if _, err := d.readReply(conn, rd); err != nil {
		return fmt.Errorf("чтение приветствия Dashboard: %w", err)
	}

	reply, err := d.send(conn, rd, "load "+program)
	if err != nil {
		return err
	}
	if isRejection(reply) {
		return fmt.Errorf("%w: load %s: %s", ErrProgramRejected, program, reply)
	}

	time.Sleep(d.settle)

	reply, err = d.send(conn, rd, "play")
	if err != nil {
		return err
	}
	if isRejection(reply) {
		return fmt.Errorf("%w: play %s: %s", ErrProgramRejected, program, reply)
	}

	return nil
}

func (d *Dashboard) send(conn net.Conn, rd *bufio.Reader, cmd string) (string, error) {
	if err := conn.SetDeadline(time.Now().Add(d.timeout)); err != nil {
		return "", err
	}
	if _, err := conn.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("отправка %q на Dashboard: %w", cmd, err)
	}
	return d.readReply(conn, rd)
}

func (d *Dashboard) readReply(conn net.Conn, rd *bufio.Reader) (string, error) {
	if err := conn.SetDeadline(time.Now().Add(d.timeout)); err != nil {
		return "", err
	}
	line, err := rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isRejection(reply string) bool {
	return strings.Contains(reply, "Error") || strings.Contains(reply, "File not found")
}

// IsTimeout сообщает, была ли ошибка превышением сетевого дедлайна.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
