package generation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// Handler exposes the generate endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
}

type generateRequest struct {
	CheckoutSessionID string `json:"checkoutSessionId"`
	ClientSessionID   string `json:"clientSessionId"`
}

type generateResponse struct {
	EnhancedResumeText string `json:"enhancedResumeText"`
	RemainingCredits   int    `json:"remainingCredits"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Set(middleware.ErrorKindKey, string(apperr.KindInvalidRequest))
		respond.Error(c, http.StatusBadRequest, string(apperr.KindInvalidRequest), "checkoutSessionId and clientSessionId are required.")
		return
	}
	c.Set(middleware.CheckoutSessionIDKey, req.CheckoutSessionID)
	c.Set(middleware.ClientSessionIDKey, req.ClientSessionID)

	res, err := h.Svc.Generate(c.Request.Context(), Request{
		CheckoutSessionID: req.CheckoutSessionID,
		ClientSessionID:   req.ClientSessionID,
	})
	if err != nil {
		c.Set(middleware.ErrorKindKey, string(apperr.KindOf(err)))
		respond.Problem(c, err, "Failed to generate enhanced resume. Please try again.")
		return
	}

	respond.OK(c, generateResponse{
		EnhancedResumeText: res.EnhancedResumeText,
		RemainingCredits:   res.RemainingCredits,
	})
}
