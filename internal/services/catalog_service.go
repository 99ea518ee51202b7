package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/baharkarakas/lottery-miniapp-api/internal/edge"
	"github.com/baharkarakas/lottery-miniapp-api/internal/metrics"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/telemetry"
)

const (
	ProductsFunction = "get-products"
	productsPath     = "data.products"
)

type FunctionInvoker interface {
	Invoke(ctx context.Context, name string, inv edge.Invocation) (json.RawMessage, error)
}

type CatalogService struct {
	fn         FunctionInvoker
	clientInfo string
	now        func() time.Time
}

func NewCatalogService(fn FunctionInvoker, clientInfo string) *CatalogService {
	return &CatalogService{fn: fn, clientInfo: clientInfo, now: time.Now}
}

type CatalogResult struct {
	Products []models.Product
}

func (r CatalogResult) Count() int { return len(r.Products) }

// List forwards the filter to the products function. It never writes.
func (s *CatalogService) List(ctx context.Context, f models.CatalogFilter) (CatalogResult, error) {
	f.Category = strings.TrimSpace(f.Category)
	if strings.TrimSpace(f.Status) == "" {
		f.Status = models.DefaultProductStatus
	}

	ctx, span := telemetry.Tracer().Start(ctx, "catalog.list")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.category", f.Category), attribute.String("catalog.status", f.Status))

	raw, err := s.fn.Invoke(ctx, ProductsFunction, edge.Invocation{
		Headers: map[string]string{
			"x-client-info": s.clientInfo,
			"x-request-id":  fmt.Sprintf("req_%d", s.now().UnixMilli()),
		},
		Body: f,
	})
	if err != nil {
		metrics.CatalogRequests.WithLabelValues("function_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "function invocation failed")
		return CatalogResult{}, ServerError(CodeFunction, functionMessage(err), err)
	}

	products, err := extractProducts(raw)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues("internal_error").Inc()
		return CatalogResult{}, ServerError(CodeInternal, MsgInternal, err)
	}
	metrics.CatalogRequests.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("catalog.count", len(products)))
	return CatalogResult{Products: products}, nil
}

// extractProducts reads data.products; a missing or non-array value is an
// empty catalog.
func extractProducts(raw json.RawMessage) ([]models.Product, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("catalog: function returned invalid JSON")
	}
	res := gjson.GetBytes(raw, productsPath)
	if !res.IsArray() {
		return []models.Product{}, nil
	}
	items := res.Array()
	out := make([]models.Product, 0, len(items))
	for _, it := range items {
		out = append(out, models.Product(it.Raw))
	}
	return out, nil
}

func functionMessage(err error) string {
	var fe *edge.Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return "Failed to invoke " + ProductsFunction
}
