package shopify

import (
	"context"
	"encoding/json"
)

// DefaultLimit is the page size used when a request does not give one.
const DefaultLimit = 10

type ProductsParams struct {
	Limit       int
	SearchTitle string
}

type OrdersParams struct {
	Limit  int
	Status string // "any", "open", "closed" or "cancelled"
}

type CustomersParams struct {
	Limit       int
	SearchQuery string
}

// ProductInput mirrors the Admin API ProductInput fields this service sets.
type ProductInput struct {
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
}

// Service exposes the fixed store operations on top of an Executor. REST
// routes and model tools both go through it.
type Service struct {
	exec Executor
}

func NewService(exec Executor) *Service {
	return &Service{exec: exec}
}

func (s *Service) Products(ctx context.Context, p ProductsParams) (json.RawMessage, error) {
	query := ""
	if p.SearchTitle != "" {
		query = "title:*" + p.SearchTitle + "*"
	}
	return s.exec.Execute(ctx, productsQuery, map[string]any{
		"first": limitOrDefault(p.Limit),
		"query": query,
	})
}

// ProductByID accepts a bare or fully-qualified product id.
func (s *Service) ProductByID(ctx context.Context, id string) (json.RawMessage, error) {
	gid, err := ProductGID(id)
	if err != nil {
		return nil, err
	}
	return s.exec.Execute(ctx, productQuery, map[string]any{"id": gid})
}

func (s *Service) Orders(ctx context.Context, p OrdersParams) (json.RawMessage, error) {
	query := ""
	if p.Status != "" && p.Status != "any" {
		query = "status:" + p.Status
	}
	return s.exec.Execute(ctx, ordersQuery, map[string]any{
		"first": limitOrDefault(p.Limit),
		"query": query,
	})
}

func (s *Service) Customers(ctx context.Context, p CustomersParams) (json.RawMessage, error) {
	return s.exec.Execute(ctx, customersQuery, map[string]any{
		"first": limitOrDefault(p.Limit),
		"query": p.SearchQuery,
	})
}

// CreateProduct fills unset optional fields the way the Admin UI does: empty
// strings, no tags and DRAFT status.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (json.RawMessage, error) {
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if in.Status == "" {
		in.Status = "DRAFT"
	}
	return s.exec.Execute(ctx, productCreateMutation, map[string]any{"input": in})
}

func (s *Service) StoreInfo(ctx context.Context) (json.RawMessage, error) {
	return s.exec.Execute(ctx, shopQuery, nil)
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
