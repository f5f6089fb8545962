// Пакет robot - клиентская библиотека командного протокола адаптера.
// Клиент держит одно TCP-соединение и отправляет по одной JSON-команде
// на строку; на каждую команду сервер отвечает одной JSON-строкой.
package robot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/iwtcode/robotAdapter/models"
	"github.com/sirupsen/logrus"
)

// Client является основной точкой входа для взаимодействия с адаптером.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	rd      *bufio.Reader
	timeout time.Duration
	config  *Config
	logger  *logrus.Logger
}

// New создает клиента и устанавливает соединение с командным сервером.
func New(cfg *Config) (*Client, error) {
	logger := logrus.New()

	if cfg.LogLevel == "off" || cfg.LogLevel == "none" {
		logger.SetOutput(io.Discard)
	} else {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stdout)
	}

	// Настраиваем форматтер с понятным форматом времени
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	conn, err := net.DialTimeout("tcp", cfg.Addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to command server: %w", err)
	}
	logger.WithField("addr", cfg.Addr).Info("Connected to robot adapter")

	return &Client{
		conn:    conn,
		rd:      bufio.NewReader(conn),
		timeout: timeout,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Close закрывает соединение с командным сервером.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger
}

// call отправляет одну команду и дожидается ответа. Ответ со статусом
// error превращается в ошибку Go с сообщением сервера.
func (c *Client) call(req models.Request) (*models.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("client is closed")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	c.logger.WithField("command", req.Command).Debug("Sending command")
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send command '%s': %w", req.Command, err)
	}

	line, err := c.rd.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response for '%s': %w", req.Command, err)
	}

	var resp models.Response
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("malformed response for '%s': %w", req.Command, err)
	}

	if resp.Status != models.StatusSuccess {
		c.logger.WithFields(logrus.Fields{
			"command": req.Command,
			"message": resp.Message,
		}).Warn("Command failed")
		return &resp, fmt.Errorf("command '%s' failed: %s", req.Command, resp.Message)
	}
	return &resp, nil
}

// PickPiece забирает деталь из именованной позиции.
func (c *Client) PickPiece(piece string) (*models.Response, error) {
	return c.call(models.Request{Command: "pick_piece", Piece: piece})
}

// PlacePiece кладет удерживаемую деталь в именованную позицию.
func (c *Client) PlacePiece(location string) (*models.Response, error) {
	return c.call(models.Request{Command: "place_piece", Location: location})
}

// MoveHome перемещает робота в домашнюю позицию.
func (c *Client) MoveHome() error {
	_, err := c.call(models.Request{Command: "move_home"})
	return err
}

// MovePose перемещает инструмент в произвольную позу.
func (c *Client) MovePose(pose models.Pose) error {
	_, err := c.call(models.Request{Command: "move_pose", Pose: pose.Slice()})
	return err
}

// Wait приостанавливает выполнение на стороне сервера на seconds секунд.
func (c *Client) Wait(seconds float64) error {
	_, err := c.call(models.Request{Command: "wait", Duration: seconds})
	return err
}

// GetPose возвращает текущую позу инструмента.
func (c *Client) GetPose() (models.Pose, error) {
	resp, err := c.call(models.Request{Command: "get_pose"})
	if err != nil {
		return models.Pose{}, err
	}
	return models.PoseFromSlice(resp.Pose)
}

// GetJoints возвращает текущие углы суставов.
func (c *Client) GetJoints() ([]float64, error) {
	resp, err := c.call(models.Request{Command: "get_joints"})
	if err != nil {
		return nil, err
	}
	return resp.Joints, nil
}

// ListPositions возвращает имена известных именованных позиций.
func (c *Client) ListPositions() ([]string, error) {
	resp, err := c.call(models.Request{Command: "list_positions"})
	if err != nil {
		return nil, err
	}
	return resp.Positions, nil
}
