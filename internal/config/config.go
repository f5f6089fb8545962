package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort  string // Порт служебного HTTP API
	GinMode     string
	CommandHost string // Адрес командного TCP-сервера
	CommandPort string

	PositionsFile string // Файл именованных позиций

	Robot    RobotConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	Logging  LoggerConfig
}

// RobotConfig содержит параметры подключения к роботу и политику восстановления.
type RobotConfig struct {
	Host          string // IP контроллера робота
	MotionPort    int    // Порт драйвера движения
	DashboardPort int    // Порт Dashboard-сервера (запуск программ схвата)
	TimeoutMs     int    // Таймаут одного аппаратного вызова

	GripperModel string // Модель схвата (RG2, RG6, 2FG7)
	OpenProgram  string // Переопределение программы открытия
	CloseProgram string // Переопределение программы закрытия

	HomePosition        string  // Имя домашней позиции в хранилище
	ApproachClearanceMm float64 // Высота точки подхода над целью

	RecoveryAttempts  int // Попыток восстановления motion-линка
	RecoveryBackoffMs int // Базовая пауза между попытками (удваивается)

	RequireRobot bool // Считать ли недоступность робота на старте фатальной
}

// KafkaConfig содержит настройки продюсера телеметрии.
type KafkaConfig struct {
	Enable bool
	Broker string
	Topic  string
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Enable   bool
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:    getEnv("APP_PORT", "8082"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		CommandHost:   getEnv("COMMAND_HOST", "0.0.0.0"),
		CommandPort:   getEnv("COMMAND_PORT", "5000"),
		PositionsFile: getEnv("POSITIONS_FILE", "positions.txt"),
		Robot: RobotConfig{
			Host:                getEnv("ROBOT_HOST", "192.168.1.10"),
			MotionPort:          getEnvAsInt("ROBOT_MOTION_PORT", 30000),
			DashboardPort:       getEnvAsInt("ROBOT_DASHBOARD_PORT", 29999),
			TimeoutMs:           getEnvAsInt("ROBOT_TIMEOUT", 5000),
			GripperModel:        getEnv("GRIPPER_MODEL", "RG2"),
			OpenProgram:         getEnv("GRIPPER_OPEN_PROGRAM", ""),
			CloseProgram:        getEnv("GRIPPER_CLOSE_PROGRAM", ""),
			HomePosition:        getEnv("HOME_POSITION", "home"),
			ApproachClearanceMm: getEnvAsFloat("APPROACH_CLEARANCE_MM", 50),
			RecoveryAttempts:    getEnvAsInt("RECOVERY_ATTEMPTS", 3),
			RecoveryBackoffMs:   getEnvAsInt("RECOVERY_BACKOFF_MS", 500),
			RequireRobot:        getEnvAsBool("REQUIRE_ROBOT", false),
		},
		Kafka: KafkaConfig{
			Enable: getEnvAsBool("KAFKA_ENABLE", false),
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_TOPIC", "robot_events"),
		},
		Database: DatabaseConfig{
			Enable:   getEnvAsBool("DB_ENABLE", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "robot_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	valueStr := getEnv(name, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}
