package payments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/credits"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
)

// Handler exposes checkout and credit status endpoints.
type Handler struct {
	Checkout CheckoutCreator
	Ledger   credits.Ledger
}

// NewHandler constructs a Handler.
func NewHandler(checkout CheckoutCreator, ledger credits.Ledger) *Handler {
	return &Handler{Checkout: checkout, Ledger: ledger}
}

// RegisterRoutes attaches payment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create-checkout-session", h.createCheckoutSession)
	rg.GET("/credits/:checkoutSessionId", h.getCredits)
}

type createCheckoutRequest struct {
	ClientSessionID string `json:"clientSessionId" form:"clientSessionId"`
}

func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req createCheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, string(apperr.KindInvalidRequest), "clientSessionId is required.")
		return
	}
	req.ClientSessionID = strings.TrimSpace(req.ClientSessionID)
	if req.ClientSessionID == "" {
		respond.Error(c, http.StatusBadRequest, string(apperr.KindInvalidRequest), "clientSessionId is required.")
		return
	}
	c.Set(middleware.ClientSessionIDKey, req.ClientSessionID)

	co, err := h.Checkout.CreateCheckout(c.Request.Context(), CheckoutRequest{ClientSessionID: req.ClientSessionID})
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("failed").Inc()
		fields := map[string]any{
			"err":               err.Error(),
			"client_session_id": req.ClientSessionID,
			"request_id":        middleware.RequestIDFromContext(c),
		}
		if errors.Is(err, ErrNotConfigured) {
			fields["not_configured"] = true
		}
		telemetry.Error("payments.checkout.failed", fields)
		c.Set(middleware.ErrorKindKey, string(apperr.KindPayment))
		respond.Error(c, http.StatusInternalServerError, string(apperr.KindPayment), "Unable to create payment session. Please try again.")
		return
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	c.Set(middleware.CheckoutSessionIDKey, co.ID)
	respond.OK(c, gin.H{"url": co.URL})
}

type creditsResponse struct {
	CheckoutSessionID string `json:"checkoutSessionId"`
	RemainingCredits  *int   `json:"remainingCredits"`
	TotalCredits      int    `json:"totalCredits"`
}

// getCredits reads the ledger without verifying payment or initializing an
// entry; remainingCredits is null until the first generation.
func (h *Handler) getCredits(c *gin.Context) {
	id := strings.TrimSpace(c.Param("checkoutSessionId"))
	if id == "" {
		respond.Error(c, http.StatusBadRequest, string(apperr.KindInvalidRequest), "checkoutSessionId is required.")
		return
	}
	c.Set(middleware.CheckoutSessionIDKey, id)

	n, ok, err := h.Ledger.Remaining(c.Request.Context(), id)
	if err != nil {
		respond.Problem(c, err, "Unable to read credits. Please try again.")
		return
	}
	resp := creditsResponse{CheckoutSessionID: id, TotalCredits: credits.DefaultQuota}
	if ok {
		resp.RemainingCredits = &n
	}
	respond.OK(c, resp)
}
