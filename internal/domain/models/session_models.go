package models

import "time"

// SessionState - состояние сессии робота.
//
// READY        - motion-линк валиден, можно выдавать команды движения.
// GRIPPER_BUSY - выполняется актуация схвата, motion-линк считается протухшим.
// RECOVERING   - идет восстановление motion-линка.
// FAULTED      - попытки восстановления исчерпаны; следующая команда
//                запустит еще один цикл восстановления.
type SessionState string

const (
	StateReady       SessionState = "READY"
	StateGripperBusy SessionState = "GRIPPER_BUSY"
	StateRecovering  SessionState = "RECOVERING"
	StateFaulted     SessionState = "FAULTED"
)

// SessionInfo - срез состояния сессии для служебного API и телеметрии.
type SessionInfo struct {
	State          SessionState `json:"state"`
	StartedAt      time.Time    `json:"started_at"`
	CommandsServed uint64       `json:"commands_served"`
	Recoveries     uint64       `json:"recoveries"`
	LastCommand    string       `json:"last_command,omitempty"`
	LastError      string       `json:"last_error,omitempty"`
	LastPose       []float64    `json:"last_pose,omitempty"`
}
