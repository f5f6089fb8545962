// Пакет tcpserver реализует командный протокол робота: TCP-сервер,
// принимающий JSON-объекты по одному на строку и отвечающий одной
// JSON-строкой на каждый запрос.
package tcpserver

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/iwtcode/robotAdapter/internal/config"
	dmodels "github.com/iwtcode/robotAdapter/internal/domain/models"
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
	"github.com/iwtcode/robotAdapter/models"
)

const maxLineBytes = 64 * 1024

// Server обслуживает командные подключения. Каждое подключение живет в
// своей горутине; ошибки протокола не закрывают соединение, клиент
// может прислать следующую команду.
type Server struct {
	addr     string
	usecases interfaces.Usecases
	logger   *logging.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool

	wg sync.WaitGroup
}

func NewServer(cfg *config.AppConfig, uc interfaces.Usecases, logger *logging.Logger) *Server {
	return &Server{
		addr:     net.JoinHostPort(cfg.CommandHost, cfg.CommandPort),
		usecases: uc,
		logger:   logger.WithPrefix("COMMAND"),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Start начинает прием подключений и возвращает управление.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("Command server listening", "addr", listener.Addr().String())

	s.wg.Add(1)
	go s.acceptLoop(listener)
	return nil
}

// Addr возвращает фактический адрес слушателя.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop закрывает слушателя и все активные подключения, затем дожидается
// завершения обслуживающих горутин.
func (s *Server) Stop() {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Command server stopped")
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			s.logger.Error("Accept failed", "error", err)
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	connID := uuid.New().String()
	log := s.logger.WithPrefix("CONN")
	log.Info("Client connected", "conn_id", connID, "remote", conn.RemoteAddr().String())
	defer log.Info("Client disconnected", "conn_id", connID)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req models.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			log.Warn("Malformed request", "conn_id", connID, "error", err)
			s.respond(conn, log, models.Response{
				Status:  models.StatusError,
				Message: "некорректный JSON в запросе",
			})
			continue
		}

		cmd, rerr := dmodels.FromRequest(&req)
		if rerr != nil {
			log.Warn("Rejected request", "conn_id", connID, "command", req.Command, "error", rerr.Message)
			s.respond(conn, log, models.Response{
				Status:  models.StatusError,
				Command: req.Command,
				Message: rerr.Message,
			})
			continue
		}

		log.Info("Executing command", "conn_id", connID, "command", cmd.Kind, "argument", cmd.Argument())
		s.respond(conn, log, s.usecases.Execute(connID, cmd))
	}

	if err := scanner.Err(); err != nil {
		log.Warn("Connection read error", "conn_id", connID, "error", err)
	}
}

// respond сериализует ответ и отправляет его одной строкой.
func (s *Server) respond(conn net.Conn, log *logging.Logger, resp models.Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Error("Failed to serialize response", "error", err)
		return
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		log.Warn("Failed to write response", "error", err)
	}
}
