package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	webhookapp "github.com/van-william/carbon-sub017/internal/application/webhook"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/middleware"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// WebhookReceiver verifies and forwards an inbound delivery
type WebhookReceiver interface {
	Receive(ctx context.Context, integration string, d webhookapp.Delivery) (*webhookapp.Result, error)
}

// WebhookHandler accepts signed deliveries from integrations. These routes
// are not behind Auth; the signature authenticates the caller.
type WebhookHandler struct {
	BaseHandler
	receiver WebhookReceiver
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(receiver WebhookReceiver) *WebhookHandler {
	return &WebhookHandler{receiver: receiver}
}

// Routes registers POST /:integration under g
func (h *WebhookHandler) Routes(g *router.DomainGroup) {
	g.POST("/:integration", h.Receive)
}

// Receive godoc
// @ID           receiveWebhook
// @Summary      Receive a signed webhook delivery
// @Description  The body is verified against X-Webhook-Signature, an HMAC-SHA256 of "<timestamp>.<body>", and forwarded to the worker
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        integration         path   string true "Integration name"
// @Param        X-Webhook-Timestamp header string true "Unix seconds the delivery was signed at"
// @Param        X-Webhook-Signature header string true "v1=<hex hmac>"
// @Success      200 {object} webhookapp.Result
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /webhooks/{integration} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body too large")
			return
		}
		h.BadRequest(c, "Failed to read request body")
		return
	}

	company, _ := uuid.Parse(c.GetHeader(middleware.HeaderCompanyID))
	result, err := h.receiver.Receive(c.Request.Context(), c.Param("integration"), webhookapp.Delivery{
		Timestamp: c.GetHeader(webhookapp.HeaderTimestamp),
		Signature: c.GetHeader(webhookapp.HeaderSignature),
		CompanyID: company,
		Body:      body,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
