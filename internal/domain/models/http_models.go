package models

// PollingRequest - параметры запуска фонового опроса состояния.
type PollingRequest struct {
	Interval int `json:"interval" binding:"required"` // Интервал в миллисекундах
}

// MessageResponse - типовой ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse - типовой ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
