package robolink

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iwtcode/robotAdapter/models"
)

// startDriver поднимает заглушку драйвера движения, отвечающую по
// таблице "команда -> строка ответа".
func startDriver(t *testing.T, replies map[string]string) (string, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					cmd := strings.Fields(scanner.Text())[0]
					reply, ok := replies[cmd]
					if !ok {
						reply = "ERR unsupported"
					}
					if _, err := conn.Write([]byte(reply + "\n")); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	host, portStr, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func dialDriver(t *testing.T, replies map[string]string) *Link {
	t.Helper()
	host, port := startDriver(t, replies)
	link, err := Dial(host, port, time.Second)
	require.NoError(t, err, "Подключение к заглушке должно удаться")
	t.Cleanup(link.Close)
	return link
}

func TestLinkMoveTo(t *testing.T) {
	link := dialDriver(t, map[string]string{"MOVEP": "OK"})
	err := link.MoveTo(models.Pose{X: 1.5, Y: -2, Z: 3})
	require.NoError(t, err)
}

func TestLinkRemoteRejection(t *testing.T) {
	link := dialDriver(t, map[string]string{"MOVEP": "ERR out of reach"})

	err := link.MoveTo(models.Pose{Z: 9999})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRemote, "Отказ контроллера должен помечаться ErrRemote")
	require.Contains(t, err.Error(), "out of reach")
}

func TestLinkCurrentPose(t *testing.T) {
	link := dialDriver(t, map[string]string{"GETPOSE": "POSE 1 2 3 0.1 0.2 0.3"})

	pose, err := link.CurrentPose()
	require.NoError(t, err)
	require.Equal(t, models.Pose{X: 1, Y: 2, Z: 3, Rx: 0.1, Ry: 0.2, Rz: 0.3}, pose)
}

func TestLinkCurrentJoints(t *testing.T) {
	link := dialDriver(t, map[string]string{"GETJNT": "JNT 0 -90 90 0 45 0"})

	joints, err := link.CurrentJoints()
	require.NoError(t, err)
	require.Equal(t, []float64{0, -90, 90, 0, 45, 0}, joints)
}

func TestLinkMalformedReply(t *testing.T) {
	link := dialDriver(t, map[string]string{"GETJNT": "JNT 1 2 3"})

	_, err := link.CurrentJoints()
	require.Error(t, err, "Неполный ответ должен быть ошибкой")
}

func TestLinkIsAlive(t *testing.T) {
	link := dialDriver(t, map[string]string{"GETJNT": "JNT 0 0 0 0 0 0"})
	require.True(t, link.IsAlive())

	link.Close()
	require.False(t, link.IsAlive(), "Закрытый линк не должен считаться живым")
}

func TestLinkMoveJointsValidatesCount(t *testing.T) {
	link := dialDriver(t, map[string]string{"MOVEJ": "OK"})

	require.Error(t, link.MoveJoints([]float64{1, 2, 3}))
	require.NoError(t, link.MoveJoints([]float64{1, 2, 3, 4, 5, 6}))
}

func TestLinkTransportErrorIsNotRemote(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	host, portStr, _ := net.SplitHostPort(listener.Addr().String())
	port, _ := strconv.Atoi(portStr)

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		conn.Close() // обрыв сразу после подключения
	}()

	link, err := Dial(host, port, time.Second)
	require.NoError(t, err)
	defer link.Close()
	listener.Close()

	_, err = link.CurrentJoints()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRemote, "Обрыв соединения не должен выглядеть отказом контроллера")
}
