package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/auth"
	"fashionstore/internal/order"
	"fashionstore/internal/profile"
	"fashionstore/pkg/money"
)

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"max=120"`
	Phone    string `json:"phone" validate:"max=20"`
	Address  string `json:"address" validate:"max=255"`
	City     string `json:"city" validate:"max=100"`
	State    string `json:"state" validate:"max=100"`
	Pincode  string `json:"pincode" validate:"omitempty,len=6,numeric"`
}

type OrderResponse struct {
	ID           string            `json:"id"`
	Status       order.Status      `json:"status"`
	Total        int64             `json:"total"`
	TotalDisplay string            `json:"total_display"`
	PaymentID    *string           `json:"payment_id,omitempty"`
	Items        []order.OrderItem `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
}

func newOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID.String(),
		Status:       o.Status,
		Total:        o.Total,
		TotalDisplay: money.Format(o.Total),
		PaymentID:    o.PaymentID,
		Items:        o.Items,
		CreatedAt:    o.CreatedAt,
	}
}

type AccountHandler struct {
	profiles profile.Service
	orders   order.Service
	broker   *auth.Broker
	validate *validator.Validate
}

func NewAccountHandler(profiles profile.Service, orders order.Service, broker *auth.Broker) *AccountHandler {
	return &AccountHandler{
		profiles: profiles,
		orders:   orders,
		broker:   broker,
		validate: validator.New(),
	}
}

func (h *AccountHandler) RegisterRoutes(router chi.Router) {
	router.Get("/account/profile", h.handleGetProfile)
	router.Put("/account/profile", h.handleUpdateProfile)
	router.Get("/account/orders", h.handleListOrders)
	router.Post("/account/signout", h.handleSignOut)
}

// handleGetProfile returns an empty profile rather than 404 for first-time
// users, so the client can render a blank form.
func (h *AccountHandler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			respondWithJSON(w, http.StatusOK, &profile.Profile{UserID: session.UserID})
			return
		}
		log.Error().Err(err).Msg("Failed to get profile")
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *AccountHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var requestPayload UpdateProfileRequest

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

	p := &profile.Profile{
		UserID:   session.UserID,
		FullName: requestPayload.FullName,
		Phone:    requestPayload.Phone,
		Address:  requestPayload.Address,
		City:     requestPayload.City,
		State:    requestPayload.State,
		Pincode:  requestPayload.Pincode,
	}

	if err := h.profiles.SaveProfile(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("Failed to save profile")
		respondWithError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *AccountHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orders, err := h.orders.GetOrdersByUserID(r.Context(), session.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, newOrderResponse(&orders[i]))
	}

	respondWithJSON(w, http.StatusOK, responses)
}

// handleSignOut broadcasts the sign-out so listeners (the cart manager) can
// drop the user's session state. Token invalidation itself is the identity
// provider's job.
func (h *AccountHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.broker.Publish(auth.Event{Type: auth.SignedOut, UserID: session.UserID})
	log.Info().Stringer("user_id", session.UserID).Msg("User signed out")

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
