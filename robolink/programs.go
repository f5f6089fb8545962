package robolink

import "strings"

// ProgramSet - имена программ контроллера для открытия и закрытия схвата.
type ProgramSet struct {
	Open  string
	Close string
}

// ProgramsForModel выбирает программы схвата по строке модели.
// Неизвестные модели получают набор RG2: это схват, с которым
// ячейка работает по умолчанию.
func ProgramsForModel(model string) ProgramSet {
	m := strings.ToUpper(strings.TrimSpace(model))

	set := ProgramSet{Open: "open-gripper.urp", Close: "close-gripper.urp"}

	if strings.HasPrefix(m, "RG6") {
		set = ProgramSet{Open: "rg6-open.urp", Close: "rg6-close.urp"}
	} else if strings.HasPrefix(m, "2FG") {
		set = ProgramSet{Open: "2fg-open.urp", Close: "2fg-close.urp"}
	}

	return set
}
