package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storepilot/internal/shopify"
	"storepilot/internal/shopify/shopifytest"
	"storepilot/internal/tools"
)

func newTestDispatcher(t *testing.T, exec *shopifytest.Executor) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(tools.Store(), shopify.NewService(exec), zap.NewNop())
	require.NoError(t, err)
	return d
}

func TestDefaultLimitsAgree(t *testing.T) {
	require.Equal(t, tools.DefaultLimit, shopify.DefaultLimit)
}

func TestExecuteUnknownTool(t *testing.T) {
	exec := shopifytest.New(`{}`)
	d := newTestDispatcher(t, exec)

	res := d.Execute(context.Background(), "unknown_tool", map[string]any{})
	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"Unknown function: unknown_tool"}`, string(b))
	require.Empty(t, exec.Calls())
}

func TestExecuteVariables(t *testing.T) {
	tests := []struct {
		name     string
		tool     tools.Name
		args     map[string]any
		wantOp   string
		wantVars map[string]any
	}{
		{
			name:     "products defaults",
			tool:     tools.GetProducts,
			args:     map[string]any{},
			wantOp:   "getProducts",
			wantVars: map[string]any{"first": 10, "query": ""},
		},
		{
			name:     "products json number limit",
			tool:     tools.GetProducts,
			args:     map[string]any{"limit": float64(5), "searchTitle": "shirt"},
			wantOp:   "getProducts",
			wantVars: map[string]any{"first": 5, "query": "title:*shirt*"},
		},
		{
			name:     "product by bare id",
			tool:     tools.GetProductByID,
			args:     map[string]any{"productId": "123"},
			wantOp:   "getProduct",
			wantVars: map[string]any{"id": "gid://shopify/Product/123"},
		},
		{
			name:     "product by gid",
			tool:     tools.GetProductByID,
			args:     map[string]any{"productId": "gid://shopify/Product/123"},
			wantOp:   "getProduct",
			wantVars: map[string]any{"id": "gid://shopify/Product/123"},
		},
		{
			name:     "orders by status",
			tool:     tools.GetOrders,
			args:     map[string]any{"status": "open", "limit": nil},
			wantOp:   "getOrders",
			wantVars: map[string]any{"first": 10, "query": "status:open"},
		},
		{
			name:     "customers",
			tool:     tools.GetCustomers,
			args:     map[string]any{"limit": float64(3), "searchQuery": "email:*@example.com"},
			wantOp:   "getCustomers",
			wantVars: map[string]any{"first": 3, "query": "email:*@example.com"},
		},
		{
			name:   "create product",
			tool:   tools.CreateProduct,
			args:   map[string]any{"title": "Mug", "tags": []any{"kitchen", "gift"}},
			wantOp: "productCreate",
			wantVars: map[string]any{"input": shopify.ProductInput{
				Title:  "Mug",
				Tags:   []string{"kitchen", "gift"},
				Status: "DRAFT",
			}},
		},
		{
			name:   "store info",
			tool:   tools.GetStoreInfo,
			args:   nil,
			wantOp: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := shopifytest.New(`{"data":{}}`)
			d := newTestDispatcher(t, exec)

			res := d.Execute(context.Background(), string(tt.tool), tt.args)
			require.False(t, res.Failed(), res.Err)
			require.JSONEq(t, `{"data":{}}`, res.String())

			require.Len(t, exec.Calls(), 1)
			call := exec.Last()
			require.Equal(t, tt.wantOp, call.Operation())
			require.Equal(t, tt.wantVars, call.Variables)
		})
	}
}

func TestExecuteArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		tool tools.Name
		args map[string]any
		want string
	}{
		{name: "missing product id", tool: tools.GetProductByID, args: map[string]any{}, want: `invalid argument "productId": missing required field`},
		{name: "foreign gid", tool: tools.GetProductByID, args: map[string]any{"productId": "gid://shopify/Order/1"}, want: `is not a Product id`},
		{name: "limit too large", tool: tools.GetProducts, args: map[string]any{"limit": float64(1000)}, want: `invalid argument "limit"`},
		{name: "fractional limit", tool: tools.GetOrders, args: map[string]any{"limit": 2.5}, want: `invalid argument "limit"`},
		{name: "bad status", tool: tools.GetOrders, args: map[string]any{"status": "shipped"}, want: `invalid argument "status"`},
		{name: "unknown field", tool: tools.GetStoreInfo, args: map[string]any{"verbose": true}, want: `invalid argument "verbose": unknown field`},
		{name: "tags not strings", tool: tools.CreateProduct, args: map[string]any{"title": "x", "tags": []any{1.0}}, want: `invalid argument "tags"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := shopifytest.New(`{"data":{}}`)
			d := newTestDispatcher(t, exec)

			res := d.Execute(context.Background(), string(tt.tool), tt.args)
			require.True(t, res.Failed())
			require.Contains(t, res.Err, tt.want)
			require.Empty(t, exec.Calls())
		})
	}
}

func TestExecuteBackendFailures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		exec := shopifytest.New("")
		exec.Err = &shopify.TransportError{StatusCode: 401, Body: "Invalid API key"}
		d := newTestDispatcher(t, exec)

		res := d.Execute(context.Background(), string(tools.GetStoreInfo), nil)
		require.True(t, res.Failed())
		require.Contains(t, res.Err, "401")

		var body map[string]string
		require.NoError(t, json.Unmarshal([]byte(res.String()), &body))
		require.Equal(t, res.Err, body["error"])
	})

	t.Run("malformed json", func(t *testing.T) {
		d := newTestDispatcher(t, shopifytest.New(`<html>`))
		res := d.Execute(context.Background(), string(tools.GetStoreInfo), nil)
		require.True(t, res.Failed())
		require.Contains(t, res.Err, "malformed JSON")
	})
}

type panicCatalog struct{ Catalog }

func (panicCatalog) StoreInfo(context.Context) (json.RawMessage, error) {
	panic("boom")
}

func TestExecuteRecoversPanics(t *testing.T) {
	d, err := NewDispatcher(tools.Store(), panicCatalog{}, nil)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		res := d.Execute(context.Background(), string(tools.GetStoreInfo), nil)
		require.True(t, res.Failed())
		require.Contains(t, res.Err, "boom")
	})
}

func TestNewDispatcherRequiresEveryHandler(t *testing.T) {
	reg := tools.NewRegistry(
		tools.Tool{Name: tools.GetStoreInfo, Parameters: tools.Schema{Type: "object"}},
		tools.Tool{Name: "delete_store", Parameters: tools.Schema{Type: "object"}},
	)
	_, err := NewDispatcher(reg, shopify.NewService(shopifytest.New(`{}`)), zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "delete_store")
}

func TestToolResultJSON(t *testing.T) {
	require.Equal(t, `{"data":{"shop":{"name":"x"}}}`, Success(json.RawMessage(`{"data":{"shop":{"name":"x"}}}`)).String())
	require.Equal(t, `{"error":"nope"}`, Failure(errors.New("nope")).String())
	require.Equal(t, `null`, ToolResult{}.String())
}
