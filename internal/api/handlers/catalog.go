package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
	"github.com/baharkarakas/lottery-miniapp-api/internal/middleware"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
)

const productsRetrieved = "Products retrieved successfully"

type CatalogService interface {
	List(ctx context.Context, f models.CatalogFilter) (services.CatalogResult, error)
}

type CatalogHandler struct {
	Catalog CatalogService
	now     func() time.Time
}

func NewCatalogHandler(c CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: c, now: time.Now}
}

// Products handles GET /api/get-products?category=&status=.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Catalog.List(r.Context(), models.CatalogFilter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
	})
	if err != nil {
		se := services.AsError(err)
		slog.Error("catalog: list", "err", err, "code", se.Code, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.Envelope{
			Success:   false,
			Error:     &httpx.EnvelopeError{Code: se.Code, Message: se.Message},
			Timestamp: httpx.Timestamp(h.now()),
		})
		return
	}
	count := res.Count()
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		Success:   true,
		Data:      res.Products,
		Count:     &count,
		Message:   productsRetrieved,
		Timestamp: httpx.Timestamp(h.now()),
	})
}
