package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"storepilot/internal/shopify"
	"storepilot/internal/tools"
)

// Catalog is the set of store operations tools are routed to.
// *shopify.Service implements it.
type Catalog interface {
	Products(ctx context.Context, p shopify.ProductsParams) (json.RawMessage, error)
	ProductByID(ctx context.Context, id string) (json.RawMessage, error)
	Orders(ctx context.Context, p shopify.OrdersParams) (json.RawMessage, error)
	Customers(ctx context.Context, p shopify.CustomersParams) (json.RawMessage, error)
	CreateProduct(ctx context.Context, in shopify.ProductInput) (json.RawMessage, error)
	StoreInfo(ctx context.Context) (json.RawMessage, error)
}

// UnknownToolError is returned for a tool name the registry does not know.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown function: " + e.Name
}

type handlerFunc func(ctx context.Context, args map[string]any) (json.RawMessage, error)

// Dispatcher routes tool calls to store operations. It never returns an
// error or panics: every failure becomes a ToolResult carrying the message.
type Dispatcher struct {
	Registry  *tools.Registry
	Validator tools.Validator
	Logger    *zap.Logger

	handlers map[tools.Name]handlerFunc
}

// NewDispatcher fails when a registered tool has no handler.
func NewDispatcher(reg *tools.Registry, catalog Catalog, logger *zap.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		Registry:  reg,
		Validator: tools.DefaultValidator{},
		Logger:    logger,
		handlers:  handlers(catalog),
	}
	for _, t := range reg.List() {
		if _, ok := d.handlers[t.Name]; !ok {
			return nil, fmt.Errorf("tool %q has no handler", t.Name)
		}
	}
	return d, nil
}

func handlers(c Catalog) map[tools.Name]handlerFunc {
	return map[tools.Name]handlerFunc{
		tools.GetProducts: handle(func(ctx context.Context, a productsArgs) (json.RawMessage, error) {
			return c.Products(ctx, shopify.ProductsParams{Limit: a.Limit, SearchTitle: a.SearchTitle})
		}),
		tools.GetProductByID: handle(func(ctx context.Context, a productByIDArgs) (json.RawMessage, error) {
			gid, err := shopify.ProductGID(a.ProductID)
			if err != nil {
				return nil, &tools.ArgumentError{Field: "productId", Reason: err.Error()}
			}
			return c.ProductByID(ctx, gid)
		}),
		tools.GetOrders: handle(func(ctx context.Context, a ordersArgs) (json.RawMessage, error) {
			return c.Orders(ctx, shopify.OrdersParams{Limit: a.Limit, Status: a.Status})
		}),
		tools.GetCustomers: handle(func(ctx context.Context, a customersArgs) (json.RawMessage, error) {
			return c.Customers(ctx, shopify.CustomersParams{Limit: a.Limit, SearchQuery: a.SearchQuery})
		}),
		tools.CreateProduct: handle(func(ctx context.Context, a createProductArgs) (json.RawMessage, error) {
			return c.CreateProduct(ctx, shopify.ProductInput{
				Title:           a.Title,
				DescriptionHTML: a.DescriptionHTML,
				Vendor:          a.Vendor,
				ProductType:     a.ProductType,
				Tags:            a.Tags,
				Status:          a.Status,
			})
		}),
		tools.GetStoreInfo: handle(func(ctx context.Context, _ struct{}) (json.RawMessage, error) {
			return c.StoreInfo(ctx)
		}),
	}
}

// Execute runs one tool call.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (result ToolResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = Failure(fmt.Errorf("tool %s panicked: %v", name, r))
		}
		d.log(name, start, result)
	}()

	tool, ok := d.Registry.Lookup(name)
	if !ok {
		return Failure(&UnknownToolError{Name: name})
	}
	handler, ok := d.handlers[tool.Name]
	if !ok {
		return Failure(&UnknownToolError{Name: name})
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := d.Validator.Validate(args, tool.Parameters); err != nil {
		return Failure(err)
	}

	data, err := handler(ctx, withDefaults(args, tool.Parameters))
	if err != nil {
		return Failure(err)
	}
	if !json.Valid(data) {
		return Failure(errors.New("backend returned malformed JSON"))
	}
	return Success(data)
}

func (d *Dispatcher) log(name string, start time.Time, result ToolResult) {
	fields := []zap.Field{
		zap.String("tool", name),
		zap.Duration("duration", time.Since(start)),
	}
	if result.Failed() {
		d.Logger.Warn("Tool call failed", append(fields, zap.String("error", result.Err))...)
		return
	}
	d.Logger.Info("Tool call succeeded", append(fields, zap.Int("bytes", len(result.Data)))...)
}

// withDefaults drops null values and fills schema defaults for absent fields.
func withDefaults(args map[string]any, schema tools.Schema) map[string]any {
	out := make(map[string]any, len(schema.Properties))
	for k, v := range args {
		if v != nil {
			out[k] = v
		}
	}
	for k, prop := range schema.Properties {
		if _, ok := out[k]; !ok && prop.Default != nil {
			out[k] = prop.Default
		}
	}
	return out
}

func handle[T any](fn func(context.Context, T) (json.RawMessage, error)) handlerFunc {
	return func(ctx context.Context, args map[string]any) (json.RawMessage, error) {
		var typed T
		if err := decodeArgs(args, &typed); err != nil {
			return nil, err
		}
		return fn(ctx, typed)
	}
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return &tools.ArgumentError{Reason: err.Error()}
	}
	return nil
}
