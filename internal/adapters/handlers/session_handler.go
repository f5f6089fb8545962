package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSession возвращает снимок состояния сессии робота.
// @Summary Состояние сессии
// @Description Возвращает текущее состояние, счетчики и последние команду/ошибку/позу.
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionInfo "Снимок сессии"
// @Router /session [get]
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Session())
}

// RecoverSession запускает восстановление motion-линка вручную.
// @Summary Восстановить сессию
// @Description Запускает цикл восстановления связи с роботом, не дожидаясь следующей команды.
// @Tags Session
// @Produce json
// @Success 200 {object} models.MessageResponse "Восстановление прошло успешно"
// @Failure 500 {object} models.ErrorResponse "Восстановление не удалось"
// @Router /session/recover [post]
func (h *Handler) RecoverSession(c *gin.Context) {
	h.logger.Info("Manual recovery requested")

	if err := h.usecase.Recover(); err != nil {
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Session recovered",
	})
}

// GetPositions возвращает все именованные позиции.
// @Summary Список позиций
// @Description Возвращает именованные позиции, загруженные из файла позиций.
// @Tags Positions
// @Produce json
// @Success 200 {array} models.NamedPosition "Список позиций"
// @Router /positions [get]
func (h *Handler) GetPositions(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Positions())
}

// GetHistory возвращает последние записи журнала команд.
// @Summary История команд
// @Description Возвращает последние выполненные команды, новые первыми.
// @Tags History
// @Produce json
// @Param limit query int false "Максимум записей (по умолчанию 50)"
// @Success 200 {array} entities.CommandRecord "Записи журнала"
// @Failure 500 {object} models.ErrorResponse "Ошибка чтения журнала"
// @Router /history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		h.BadRequest(c, err, "Invalid limit parameter")
		return
	}

	records, err := h.usecase.History(limit)
	if err != nil {
		h.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
