package http

import (
	"errors"
	"net/http"

	"camp-onboarding/internal/application/onboarding"
	"camp-onboarding/internal/domain/wizard"
	"camp-onboarding/internal/infrastructure/sessionstore"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	service *onboarding.Service
}

func NewOnboardingHandler(service *onboarding.Service) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

type startSessionRequest struct {
	Token string `json:"token"`
}

func (h *OnboardingHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	result, err := h.service.StartSession(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OnboardingHandler) GetSession(c *gin.Context) {
	result, err := h.service.GetSession(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type saveStepRequest struct {
	Token          string         `json:"token"`
	Payload        map[string]any `json:"payload"`
	IdempotencyKey string         `json:"idempotencyKey,omitempty"`
}

func (h *OnboardingHandler) SaveStep(c *gin.Context) {
	var req saveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.SaveStep(c.Request.Context(), onboarding.SaveStepRequest{
		SessionID:      c.Param("id"),
		Token:          req.Token,
		Step:           c.Param("step"),
		Payload:        req.Payload,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type navigateRequest struct {
	Token string `json:"token"`
	Step  string `json:"step"`
}

func (h *OnboardingHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.JumpToStep(c.Request.Context(), c.Param("id"), req.Token, req.Step)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type resumeRequest struct {
	Token string `json:"token"`
}

// Resume hydrates a session and applies the return-redirect flag from the
// hosted gateway flow when present.
func (h *OnboardingHandler) Resume(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	connected := c.Query("gateway_status") == "connected"
	result, err := h.service.ResumeFromRedirect(c.Request.Context(), c.Param("id"), req.Token, connected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type connectRequest struct {
	Token string `json:"token"`
}

func (h *OnboardingHandler) ConnectGateway(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.service.ConnectGateway(c.Request.Context(), c.Param("id"), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"onboardingUrl": url})
}

func (h *OnboardingHandler) GatewayStatus(c *gin.Context) {
	manual := c.Query("manual") == "true"
	connected, err := h.service.CheckGatewayStatus(c.Request.Context(), c.Param("id"), c.Query("token"), manual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": connected})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessionstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, onboarding.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, onboarding.ErrSessionNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, wizard.ErrInvalidPath),
		errors.Is(err, wizard.ErrPathNotChosen),
		errors.Is(err, wizard.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
