package models

import "fmt"

// Pose описывает положение инструмента робота: смещение в мм и
// ориентация в градусах. Значимый тип, после создания не изменяется.
type Pose struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	Rx float64 `json:"rx"`
	Ry float64 `json:"ry"`
	Rz float64 `json:"rz"`
}

// PoseFromSlice собирает Pose из среза [x, y, z, rx, ry, rz].
func PoseFromSlice(v []float64) (Pose, error) {
	if len(v) != 6 {
		return Pose{}, fmt.Errorf("поза должна содержать 6 элементов [x, y, z, rx, ry, rz], получено %d", len(v))
	}
	return Pose{X: v[0], Y: v[1], Z: v[2], Rx: v[3], Ry: v[4], Rz: v[5]}, nil
}

// Slice возвращает позу в виде [x, y, z, rx, ry, rz].
func (p Pose) Slice() []float64 {
	return []float64{p.X, p.Y, p.Z, p.Rx, p.Ry, p.Rz}
}

// Position возвращает только координаты [x, y, z].
func (p Pose) Position() []float64 {
	return []float64{p.X, p.Y, p.Z}
}

// Orientation возвращает только углы [rx, ry, rz].
func (p Pose) Orientation() []float64 {
	return []float64{p.Rx, p.Ry, p.Rz}
}

// WithZOffset возвращает копию позы, поднятую по оси Z на offset мм.
// Используется для расчета точки подхода над целью при pick/place.
func (p Pose) WithZOffset(offset float64) Pose {
	p.Z += offset
	return p
}

// NamedPosition - именованная позиция из хранилища позиций.
type NamedPosition struct {
	Name string `json:"name"`
	Pose Pose   `json:"pose"`
}

// Статусы ответа командного протокола.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request - один JSON-объект командного протокола. Клиент отправляет
// по одному объекту на строку, поля зависят от вида команды.
type Request struct {
	Command  string    `json:"command"`
	Piece    string    `json:"piece,omitempty"`
	Location string    `json:"location,omitempty"`
	Pose     []float64 `json:"pose,omitempty"`
	Duration float64   `json:"duration,omitempty"` // секунды
}

// Response - ответ сервера на одну команду. На каждый запрос приходит
// ровно один ответ; при ошибке заполняется Message.
type Response struct {
	Status      string    `json:"status"`
	Command     string    `json:"command,omitempty"`
	Message     string    `json:"message,omitempty"`
	Piece       string    `json:"piece,omitempty"`
	Location    string    `json:"location,omitempty"`
	Position    []float64 `json:"position,omitempty"`
	Orientation []float64 `json:"orientation,omitempty"`
	Pose        []float64 `json:"pose,omitempty"`
	Joints      []float64 `json:"joints,omitempty"`
	Positions   []string  `json:"positions,omitempty"`
}
