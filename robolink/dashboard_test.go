package robolink

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startDashboard поднимает заглушку Dashboard-сервера: приветствие при
// подключении, затем ответ на каждую строку по функции reply.
func startDashboard(t *testing.T, reply func(cmd string) string) (*Dashboard, func() []string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	var mu sync.Mutex
	received := []string{}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				if _, err := conn.Write([]byte("Connected: Universal Robots Dashboard Server\n")); err != nil {
					return
				}
				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					cmd := scanner.Text()
					mu.Lock()
					received = append(received, cmd)
					mu.Unlock()
					if _, err := conn.Write([]byte(reply(cmd) + "\n")); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	host, portStr, _ := net.SplitHostPort(listener.Addr().String())
	port, _ := strconv.Atoi(portStr)

	d := NewDashboard(host, port, time.Second)
	d.SetSettle(time.Millisecond)

	return d, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), received...)
	}
}

func TestDashboardActuate(t *testing.T) {
	d, received := startDashboard(t, func(cmd string) string {
		if strings.HasPrefix(cmd, "load ") {
			return "Loading program: " + strings.TrimPrefix(cmd, "load ")
		}
		return "Starting program"
	})

	require.NoError(t, d.Actuate("open-gripper.urp"))
	require.Equal(t, []string{"load open-gripper.urp", "play"}, received(),
		"Актуация должна загрузить программу и запустить ее")
}

func TestDashboardLoadRejected(t *testing.T) {
	d, received := startDashboard(t, func(cmd string) string {
		return "File not found: missing.urp"
	})

	err := d.Actuate("missing.urp")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProgramRejected)
	require.Equal(t, []string{"load missing.urp"}, received(),
		"После отказа на load команда play не отправляется")
}

func TestDashboardPlayRejected(t *testing.T) {
	d, _ := startDashboard(t, func(cmd string) string {
		if strings.HasPrefix(cmd, "load ") {
			return "Loading program: ok"
		}
		return "Error: robot is in protective stop"
	})

	err := d.Actuate("open-gripper.urp")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProgramRejected)
}

func TestDashboardUnreachable(t *testing.T) {
	d := NewDashboard("127.0.0.1", 1, 100*time.Millisecond)
	err := d.Actuate("open-gripper.urp")
	require.Error(t, err, "Недоступный Dashboard должен возвращать ошибку")
}

func TestIsTimeout(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	// Сервер принимает подключение, но молчит: приветствие не приходит.
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		time.Sleep(500 * time.Millisecond)
		conn.Close()
	}()

	host, portStr, _ := net.SplitHostPort(listener.Addr().String())
	port, _ := strconv.Atoi(portStr)

	d := NewDashboard(host, port, 50*time.Millisecond)
	err = d.Actuate("open-gripper.urp")
	require.Error(t, err)
	require.True(t, IsTimeout(err), "Молчание сервера должно классифицироваться как таймаут")
}
