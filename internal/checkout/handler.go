package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mercatto/storefront/internal/domain"
)

// ShopperResolver yields the acting shopper for the request. Implemented by
// the identity resolver.
type ShopperResolver interface {
	Resolve(ctx context.Context, r *http.Request) (domain.Shopper, error)
}

type Handler struct {
	svc      *Service
	shoppers ShopperResolver
	logger   *slog.Logger
}

func NewHandler(svc *Service, shoppers ShopperResolver, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		shoppers: shoppers,
		logger:   logger,
	}
}

type checkoutRequest struct {
	Shipping struct {
		Street     string `json:"street"`
		City       string `json:"city"`
		PostalCode string `json:"postal_code"`
	} `json:"shipping"`
	Form struct {
		Total string `json:"total"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"form"`
}

type checkoutResponse struct {
	Message string `json:"message"`
	Result
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shopper, err := h.shoppers.Resolve(r.Context(), r)
	if err != nil {
		h.logger.Error("failed to resolve shopper", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := h.svc.Process(r.Context(), Request{
		Shopper: shopper,
		Shipping: Shipping{
			Street:     req.Shipping.Street,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
		},
		Total:      req.Form.Total,
		GuestName:  req.Form.Name,
		GuestEmail: req.Form.Email,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to process checkout", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, checkoutResponse{
		Message: "payment complete",
		Result:  result,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
