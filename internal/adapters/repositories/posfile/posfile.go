// Пакет posfile загружает именованные позиции из текстового файла.
// Поддерживаются обе исторические формы записи:
//
//	piece 1 : [103.43, -46.61, 123.26, 3.06, 0.002, 2.24]
//	piece 2 : [103.43, -46.61, 123.26] with orientation: [3.06, 0.002, 2.24]
//
// Имена приводятся к нижнему регистру. Некорректные строки пропускаются
// с предупреждением: файл правится оператором вручную.
package posfile

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
	"github.com/iwtcode/robotAdapter/models"
)

// Store - неизменяемое после загрузки хранилище позиций.
// Конкурентное чтение безопасно без блокировок.
type Store struct {
	positions map[string]models.Pose
	names     []string
}

// Load читает файл позиций. Отсутствие файла не фатально: возвращается
// пустое хранилище, сервер сможет отвечать на команды без позиций.
func Load(path string, logger *logging.Logger) (*Store, error) {
	log := logger.WithPrefix("POSITIONS")

	s := &Store{positions: make(map[string]models.Pose)}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Positions file not found, starting with an empty store", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("не удалось открыть файл позиций '%s': %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, pose, err := parseLine(line)
		if err != nil {
			log.Warn("Skipping invalid positions line", "line", line, "error", err)
			continue
		}

		if _, exists := s.positions[name]; exists {
			log.Warn("Duplicate position name, keeping the first one", "name", name)
			continue
		}
		s.positions[name] = pose
		s.names = append(s.names, name)
		log.Debug("Loaded position", "name", name, "pose", pose.Slice())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения файла позиций '%s': %w", path, err)
	}

	sort.Strings(s.names)
	log.Info("Positions loaded", "path", path, "count", len(s.names))
	return s, nil
}

// Lookup возвращает позу по имени. Имя нормализуется так же, как при загрузке.
func (s *Store) Lookup(name string) (models.Pose, bool) {
	pose, ok := s.positions[normalize(name)]
	return pose, ok
}

// Names возвращает отсортированный список известных имен.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseLine(line string) (string, models.Pose, error) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return "", models.Pose{}, fmt.Errorf("строка без разделителя ':'")
	}
	name = normalize(name)
	if name == "" {
		return "", models.Pose{}, fmt.Errorf("пустое имя позиции")
	}

	var values []float64
	if posPart, orientPart, hasOrient := strings.Cut(value, "with orientation:"); hasOrient {
		position, err := parseVector(posPart, 3)
		if err != nil {
			return "", models.Pose{}, err
		}
		orientation, err := parseVector(orientPart, 3)
		if err != nil {
			return "", models.Pose{}, err
		}
		values = append(position, orientation...)
	} else {
		var err error
		values, err = parseVector(value, 6)
		if err != nil {
			return "", models.Pose{}, err
		}
	}

	pose, err := models.PoseFromSlice(values)
	if err != nil {
		return "", models.Pose{}, err
	}
	return name, pose, nil
}

// parseVector разбирает "[v1, v2, ...]" заданной длины.
func parseVector(raw string, count int) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, fmt.Errorf("ожидался список в квадратных скобках, получено %q", raw)
	}
	parts := strings.Split(raw[1:len(raw)-1], ",")
	if len(parts) != count {
		return nil, fmt.Errorf("ожидалось %d значений, получено %d", count, len(parts))
	}

	values := make([]float64, count)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("нечисловое значение %q", strings.TrimSpace(p))
		}
		values[i] = v
	}
	return values, nil
}
