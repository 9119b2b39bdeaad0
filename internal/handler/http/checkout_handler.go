package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/auth"
	"fashionstore/internal/cart"
	"fashionstore/internal/checkout"
	"fashionstore/internal/middleware"
)

type ConfirmPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required,uuid4"`
	PaymentID string `json:"payment_id" validate:"required"`
}

type CheckoutHandler struct {
	service  checkout.Service
	carts    *cart.Manager
	validate *validator.Validate
}

func NewCheckoutHandler(service checkout.Service, carts *cart.Manager) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		carts:    carts,
		validate: validator.New(),
	}
}

func (h *CheckoutHandler) RegisterRoutes(router chi.Router) {
	router.Post("/checkout", h.handleBeginCheckout)
	router.Post("/checkout/confirm", h.handleConfirmPayment)
}

func (h *CheckoutHandler) handleBeginCheckout(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sid := sessionID(r)
	h.carts.Bind(sid, session.UserID)

	opts, err := h.service.Begin(r.Context(), session, h.carts.Cart(sid))
	middleware.RecordCheckoutOperation("begin", err == nil)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to begin checkout")
			respondWithError(w, statusCode, "Failed to begin checkout")
			return
		}
		respondWithError(w, statusCode, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, opts)
}

func (h *CheckoutHandler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var requestPayload ConfirmPaymentRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	orderID, err := uuid.FromString(requestPayload.OrderID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	sid := sessionID(r)
	h.carts.Bind(sid, session.UserID)

	err = h.service.Confirm(r.Context(), session, orderID, requestPayload.PaymentID, h.carts.Cart(sid))
	middleware.RecordCheckoutOperation("confirm", err == nil)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			log.Error().Err(err).Stringer("order_id", orderID).Msg("Failed to confirm payment")
			respondWithError(w, statusCode, "Failed to confirm payment")
			return
		}
		respondWithError(w, statusCode, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}
