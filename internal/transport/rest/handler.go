// Package rest provides HTTP handlers for inventory operations.
package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	ierrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/fields"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/", h.Status)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Status)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.FindAll)
			r.Post("/", h.Create)
			r.Get("/search", h.Search)
			r.Get("/{id}", h.FindByID)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
	r.Route("/stock", func(r chi.Router) {
		r.Put("/", h.UpdateStock)
		r.Get("/{id}", h.FindStock)
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// Status reports that the service is up.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, map[string]string{"status": "online"})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto service.ProductCreateDto
	if ok := h.decodeRecord(w, r, mLogger, fields.CreateProduct, &productCreateDto); !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product")

	id, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusCreated, map[string]any{
		"message": "Product created",
		"itemId":  id,
	})
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Search filters products by one attribute. The body is {"filter": <attribute>, "filterValue": <value>}.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	record, ok := h.readRecord(w, r, mLogger, fields.Search)
	if !ok {
		return
	}
	filter, isString := record["filter"].(string)
	if !isString {
		web.RespondError(w, mLogger, http.StatusBadRequest, "filter must be a string")
		return
	}
	value, ok := filterValue(record["filterValue"])
	if !ok {
		web.RespondError(w, mLogger, http.StatusBadRequest, "filterValue must be a string, number or boolean")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to search products", "filter", filter)
	list, err := h.service.Search(r.Context(), filter, value)
	if err != nil {
		switch {
		case errors.Is(err, ierrors.ErrInvalidSearchField):
			mLogger.WarnContext(r.Context(), "Rejected search field", "filter", filter)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Cannot search by %q", filter))
		case errors.Is(err, ierrors.ErrProductNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, "No products found")
		default:
			mLogger.ErrorContext(r.Context(), "Error searching products", "filter", filter, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to search products")
		}
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ierrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productDTO service.ProductDto
	if ok = h.decodeRecord(w, r, mLogger, fields.UpdateProduct, &productDTO); !ok {
		return
	}
	if productDTO.ProductID != 0 && productDTO.ProductID != id {
		mLogger.WarnContext(r.Context(), "Product ID mismatch", "path", id, "body", productDTO.ProductID)
		web.RespondError(w, mLogger, http.StatusBadRequest, "ProductID in body does not match the path")
		return
	}
	productDTO.ProductID = id

	affected, err := h.service.Update(r.Context(), productDTO)
	if err != nil {
		if errors.Is(err, ierrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"message":      "Product updated",
		"affectedRows": affected,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	affected, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ierrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"message":      "Product deleted",
		"affectedRows": affected,
	})
}

func (h *Handler) FindStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	stock, err := h.service.FindStock(r.Context(), id)
	if err != nil {
		if errors.Is(err, ierrors.ErrStockNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Stock for product %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving stock", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve stock for product %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, stock)
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var stockDTO service.StockDto
	if ok := h.decodeRecord(w, r, mLogger, fields.UpdateStock, &stockDTO); !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update stock", "ID", stockDTO.ProductID)

	updated, err := h.service.UpdateStock(r.Context(), stockDTO)
	if err != nil {
		switch {
		case errors.Is(err, ierrors.ErrStockNotFound):
			mLogger.WarnContext(r.Context(), "Stock not found for update", "ID", stockDTO.ProductID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Stock for product %d not found", stockDTO.ProductID))
		case errors.Is(err, ierrors.ErrNegativeAmount), errors.Is(err, ierrors.ErrInvalidDate):
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Error updating stock", "ID", stockDTO.ProductID, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update stock for product %d", stockDTO.ProductID))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Stock updated successfully", "ID", updated.ProductID, "Amount", updated.Amount)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// HealthCheck is a liveness probe.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck answers 503 while the database is unreachable.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		mLogger := h.loggerWithReqID(r)
		mLogger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		web.RespondError(w, mLogger, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// readRecord decodes the body as a JSON object and checks that required keys are present.
// Numbers are kept as json.Number.
func (h *Handler) readRecord(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, required []string) (map[string]any, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Error reading request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	var record map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err = dec.Decode(&record); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if missing := fields.Missing(record, required...); len(missing) > 0 {
		mLogger.WarnContext(r.Context(), "Missing required fields", "fields", missing)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return nil, false
	}
	return record, true
}

// decodeRecord runs readRecord, then decodes the same object into dst and validates it.
func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, required []string, dst any) bool {
	record, ok := h.readRecord(w, r, mLogger, required)
	if !ok {
		return false
	}
	raw, err := json.Marshal(record)
	if err == nil {
		err = json.Unmarshal(raw, dst)
	}
	if err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err = h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondValidationErrors(w, mLogger, errorResponse)
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// filterValue renders a decoded JSON scalar the way PostgreSQL casts the column to text.
func filterValue(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case json.Number:
		return value.String(), true
	case bool:
		if value {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
