package models

import "encoding/json"

const DefaultProductStatus = "active"

// Product is passed through untouched; only the hosted function knows its shape.
type Product = json.RawMessage

type CatalogFilter struct {
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
}
