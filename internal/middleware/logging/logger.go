package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Enabled    bool   // Включено ли логирование
	Level      string // DEBUG, INFO, WARN, ERROR
	LogsDir    string // Директория для логов
	SavingDays uint   // Сколько дней хранить логи
}

var levelWeights = map[string]int{
	"DEBUG": 4,
	"INFO":  3,
	"WARN":  2,
	"ERROR": 1,
}

// Logger - уровневый логгер с префиксами компонентов.
// Пишет в stdout и, при включенной конфигурации, в дневной файл.
type Logger struct {
	config *Config
	logger *log.Logger
	file   *os.File
	prefix string
}

func NewLogger(cfg *Config, prefix string) *Logger {
	l := &Logger{
		config: cfg,
		prefix: prefix,
	}

	output := l.openOutput()
	l.logger = log.New(output, "", log.LstdFlags)

	if cfg.SavingDays > 0 {
		go l.retentionSweep()
	}

	return l
}

func (l *Logger) openOutput() io.Writer {
	if !l.config.Enabled || l.config.LogsDir == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(l.config.LogsDir, 0755); err != nil {
		return os.Stdout
	}
	name := filepath.Join(l.config.LogsDir, time.Now().Format("2006-01-02")+".log")
	file, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stdout
	}
	l.file = file
	return io.MultiWriter(os.Stdout, file)
}

// WithPrefix возвращает логгер-потомок с дополнительным префиксом компонента.
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := l.prefix
	if newPrefix != "" {
		newPrefix += " "
	}
	newPrefix += "[" + prefix + "]"

	return &Logger{
		config: l.config,
		logger: l.logger,
		file:   l.file,
		prefix: newPrefix,
	}
}

// retentionSweep раз в сутки удаляет файлы логов старше SavingDays.
func (l *Logger) retentionSweep() {
	for {
		l.removeExpired()
		time.Sleep(24 * time.Hour)
	}
}

func (l *Logger) removeExpired() {
	files, err := os.ReadDir(l.config.LogsDir)
	if err != nil {
		l.Error("Failed to read logs directory", "error", err)
		return
	}

	cutoff := time.Now().AddDate(0, 0, int(-l.config.SavingDays))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(l.config.LogsDir, file.Name())); err != nil {
			l.Error("Failed to delete old log file", "file", file.Name(), "error", err)
		}
	}
}

func (l *Logger) log(level, msg string, fields ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "[%s] %s %s", level, l.prefix, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&builder, " %s=%v", fmt.Sprint(fields[i]), fields[i+1])
	}

	l.logger.Println(builder.String())
}

func (l *Logger) shouldLog(level string) bool {
	if !l.config.Enabled {
		return false
	}

	current := levelWeights[strings.ToUpper(l.config.Level)]
	if current == 0 {
		current = levelWeights["INFO"]
	}
	return levelWeights[strings.ToUpper(level)] <= current
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log("DEBUG", msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log("INFO", msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log("WARN", msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log("ERROR", msg, fields...) }

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
