package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/cart"
	"fashionstore/internal/product"
	"fashionstore/pkg/money"
)

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Size      string `json:"size"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartResponse struct {
	Lines           []cart.Line `json:"lines"`
	Subtotal        int64       `json:"subtotal"`
	SubtotalDisplay string      `json:"subtotal_display"`
}

type CartHandler struct {
	carts    *cart.Manager
	products product.Service
	validate *validator.Validate
}

func NewCartHandler(carts *cart.Manager, products product.Service) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleGetCart)
	router.Post("/cart/items", h.handleAddItem)
	router.Put("/cart/items/{productID}", h.handleUpdateQuantity)
	router.Delete("/cart/items/{productID}", h.handleRemoveItem)
	router.Delete("/cart", h.handleClearCart)
}

func (h *CartHandler) cartForRequest(r *http.Request) *cart.Cart {
	return h.carts.Cart(sessionID(r))
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, c *cart.Cart) {
	subtotal := c.Subtotal()
	respondWithJSON(w, http.StatusOK, CartResponse{
		Lines:           c.Lines(),
		Subtotal:        subtotal,
		SubtotalDisplay: money.Format(subtotal),
	})
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, h.cartForRequest(r))
}

// handleAddItem snapshots the product into the cart. Stock is checked here,
// at add time only; it is not re-validated at checkout.
func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var requestPayload AddCartItemRequest

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

	productID, err := uuid.FromString(requestPayload.ProductID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	p, err := h.products.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to load product for cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	if requestPayload.Quantity > p.Stock {
		respondWithError(w, http.StatusConflict, "Not enough stock available")
		return
	}

	c := h.cartForRequest(r)
	c.AddItem(cart.Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  requestPayload.Quantity,
		ImageURL:  p.Images()[0],
		Size:      requestPayload.Size,
	})

	h.respondWithCart(w, c)
}

func (h *CartHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.FromString(chi.URLParam(r, "productID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var requestPayload UpdateCartItemRequest

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

	c := h.cartForRequest(r)
	c.UpdateQuantity(productID, requestPayload.Quantity)

	h.respondWithCart(w, c)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.FromString(chi.URLParam(r, "productID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	c := h.cartForRequest(r)
	c.RemoveItem(productID)

	h.respondWithCart(w, c)
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	c := h.cartForRequest(r)
	c.Clear()

	h.respondWithCart(w, c)
}
