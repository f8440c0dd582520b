package shopify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/shopify"
	"storepilot/internal/shopify/shopifytest"
)

func TestProductGID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "123", want: "gid://shopify/Product/123"},
		{in: " 123 ", want: "gid://shopify/Product/123"},
		{in: "gid://shopify/Product/123", want: "gid://shopify/Product/123"},
		{in: "", wantErr: true},
		{in: "gid://shopify/Product/", wantErr: true},
		{in: "gid://shopify/Order/9", wantErr: true},
	}
	for _, tt := range tests {
		got, err := shopify.ProductGID(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestServiceVariables(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		call    func(s *shopify.Service) error
		wantOp  string
		wantVar map[string]any
	}{
		{
			name: "products default limit, no search",
			call: func(s *shopify.Service) error {
				_, err := s.Products(ctx, shopify.ProductsParams{})
				return err
			},
			wantOp:  "getProducts",
			wantVar: map[string]any{"first": 10, "query": ""},
		},
		{
			name: "products title search",
			call: func(s *shopify.Service) error {
				_, err := s.Products(ctx, shopify.ProductsParams{Limit: 3, SearchTitle: "hat"})
				return err
			},
			wantOp:  "getProducts",
			wantVar: map[string]any{"first": 3, "query": "title:*hat*"},
		},
		{
			name: "product by bare id",
			call: func(s *shopify.Service) error {
				_, err := s.ProductByID(ctx, "42")
				return err
			},
			wantOp:  "getProduct",
			wantVar: map[string]any{"id": "gid://shopify/Product/42"},
		},
		{
			name: "orders any status",
			call: func(s *shopify.Service) error {
				_, err := s.Orders(ctx, shopify.OrdersParams{Limit: 5, Status: "any"})
				return err
			},
			wantOp:  "getOrders",
			wantVar: map[string]any{"first": 5, "query": ""},
		},
		{
			name: "orders open",
			call: func(s *shopify.Service) error {
				_, err := s.Orders(ctx, shopify.OrdersParams{Status: "open"})
				return err
			},
			wantOp:  "getOrders",
			wantVar: map[string]any{"first": 10, "query": "status:open"},
		},
		{
			name: "customers search",
			call: func(s *shopify.Service) error {
				_, err := s.Customers(ctx, shopify.CustomersParams{Limit: 2, SearchQuery: "email:bob@example.com"})
				return err
			},
			wantOp:  "getCustomers",
			wantVar: map[string]any{"first": 2, "query": "email:bob@example.com"},
		},
		{
			name: "create product defaults",
			call: func(s *shopify.Service) error {
				_, err := s.CreateProduct(ctx, shopify.ProductInput{Title: "Mug"})
				return err
			},
			wantOp: "productCreate",
			wantVar: map[string]any{"input": shopify.ProductInput{
				Title:  "Mug",
				Tags:   []string{},
				Status: "DRAFT",
			}},
		},
		{
			name: "store info",
			call: func(s *shopify.Service) error {
				_, err := s.StoreInfo(ctx)
				return err
			},
			wantOp: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := shopifytest.New(`{"data":{}}`)
			require.NoError(t, tt.call(shopify.NewService(exec)))
			require.Len(t, exec.Calls(), 1)
			require.Equal(t, tt.wantOp, exec.Last().Operation())
			require.Equal(t, tt.wantVar, exec.Last().Variables)
		})
	}
}

func TestServiceProductByIDRejectsForeignGID(t *testing.T) {
	exec := shopifytest.New(`{}`)
	_, err := shopify.NewService(exec).ProductByID(context.Background(), "gid://shopify/Customer/1")
	require.Error(t, err)
	require.Empty(t, exec.Calls())
}
