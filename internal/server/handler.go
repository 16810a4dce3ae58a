package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var errInvalidBody = errors.New("request body is not a JSON value")

// AskHandler serves POST /api/ask
type AskHandler struct {
	logger *zap.Logger
	fwd    Forwarder
}

// NewAskHandler creates an AskHandler
func NewAskHandler(logger *zap.Logger, fwd Forwarder) *AskHandler {
	return &AskHandler{logger: logger, fwd: fwd}
}

// Ask relays the question to the backend as given, empty or absent
// included. Only a body that is not JSON, or is JSON null, is answered like
// any other gateway failure.
func (h *AskHandler) Ask(c *gin.Context) {
	body, err := c.GetRawData()
	if err == nil && (!gjson.ValidBytes(body) || gjson.ParseBytes(body).Type == gjson.Null) {
		err = errInvalidBody
	}
	if err != nil {
		h.logger.Warn("invalid ask request",
			zap.String("request_id", c.GetString(RequestIDHeader)),
			zap.Error(err),
		)
		res := h.fwd.InternalError()
		c.Data(res.Status, "application/json", res.Body)
		return
	}

	question := gjson.GetBytes(body, "question").String()
	res := h.fwd.Forward(c.Request.Context(), question)
	c.Data(res.Status, "application/json", res.Body)
}

// Health serves GET /healthz
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

