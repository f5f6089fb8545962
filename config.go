package robot

import (
	"os"
	"strconv"
)

// Config хранит модель конфигурации клиента
type Config struct {
	Addr      string // Адрес командного сервера host:port
	TimeoutMs int
	LogLevel  string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	addr := os.Getenv("ROBOT_ADDR")
	if addr == "" {
		addr = "127.0.0.1:5000"
	}

	timeoutStr := os.Getenv("ROBOT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = 30000
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Addr:      addr,
		TimeoutMs: timeout,
		LogLevel:  logLevel,
	}
}
