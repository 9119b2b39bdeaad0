package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/product"
	"fashionstore/pkg/money"
)

type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         int64            `json:"price"`
	PriceDisplay  string           `json:"price_display"`
	ImageURL      string           `json:"image_url"`
	ProductImages []string         `json:"product_images"`
	Category      product.Category `json:"category"`
	Stock         int              `json:"stock"`
	Sizes         []string         `json:"sizes"`
}

func newProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		PriceDisplay:  money.Format(p.Price),
		ImageURL:      p.ImageURL,
		ProductImages: p.Images(),
		Category:      p.Category,
		Stock:         p.Stock,
		Sizes:         p.SizeOptions(),
	}
}

type ProductHandler struct {
	service product.Service
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleListProducts)
	router.Get("/products/{id}", h.handleGetProduct)
}

func (h *ProductHandler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/admin/products", h.handleCreateProduct)
	router.Put("/admin/products/{id}", h.handleUpdateProduct)
	router.Delete("/admin/products/{id}", h.handleDeleteProduct)
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	category := product.Category(r.URL.Query().Get("category"))

	products, err := h.service.ListProducts(r.Context(), category)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to load products")
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, newProductResponse(&products[i]))
	}

	respondWithJSON(w, http.StatusOK, responses)
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get product")
		respondWithError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}

	respondWithJSON(w, http.StatusOK, newProductResponse(p))
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var form product.Form

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&form); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := h.service.CreateProduct(r.Context(), form)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if statusCode == http.StatusBadRequest {
			respondWithError(w, statusCode, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to create product")
		respondWithError(w, statusCode, "Failed to save product")
		return
	}

	respondWithJSON(w, http.StatusCreated, newProductResponse(created))
}

func (h *ProductHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var form product.Form

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&form); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, form)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		switch statusCode {
		case http.StatusBadRequest:
			respondWithError(w, statusCode, err.Error())
		case http.StatusNotFound:
			respondWithError(w, statusCode, "Product not found")
		default:
			log.Error().Err(err).Msg("Failed to update product")
			respondWithError(w, statusCode, "Failed to save product")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, newProductResponse(updated))
}

// handleDeleteProduct implements the two-step confirmation. The first call
// arms the item and answers 202; repeating the call performs the delete.
func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	deleted, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to delete product")
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	if !deleted {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "confirmation_pending",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
