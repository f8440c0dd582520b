// Package tools declares the store operations a language model may call.
package tools

// Name identifies a tool. The set of names is closed: every Name declared
// here must have a handler in the dispatcher.
type Name string

const (
	GetProducts    Name = "get_products"
	GetProductByID Name = "get_product_by_id"
	GetOrders      Name = "get_orders"
	GetCustomers   Name = "get_customers"
	CreateProduct  Name = "create_product"
	GetStoreInfo   Name = "get_store_info"
)

// DefaultLimit is the page size used when a caller does not give one.
const DefaultLimit = 10

// MaxLimit is the largest page the Admin API returns.
const MaxLimit = 250

var (
	OrderStatuses   = []string{"any", "open", "closed", "cancelled"}
	ProductStatuses = []string{"ACTIVE", "DRAFT", "ARCHIVED"}
)

// Tool is a callable capability as presented to the model.
type Tool struct {
	Name        Name
	Description string
	Parameters  Schema
}

// Registry is an ordered, read-only set of tools.
type Registry struct {
	tools []Tool
	index map[Name]int
}

// NewRegistry builds a registry keeping the given declaration order. A
// duplicated name keeps its first declaration.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{index: make(map[Name]int, len(tools))}
	for _, t := range tools {
		if _, dup := r.index[t.Name]; dup {
			continue
		}
		r.index[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r
}

// List returns the tools in declaration order. The slice is a copy.
func (r *Registry) List() []Tool {
	return append([]Tool(nil), r.tools...)
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[Name(name)]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Store returns the registry of store operations, in the order they are
// declared to the model.
func Store() *Registry {
	limit := func(what string) Property {
		return Property{
			Type:        "integer",
			Description: "Number of " + what + " to retrieve (default: 10)",
			Default:     DefaultLimit,
			Minimum:     intPtr(1),
			Maximum:     intPtr(MaxLimit),
		}
	}

	return NewRegistry(
		Tool{
			Name:        GetProducts,
			Description: "Get products from the Shopify store",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"limit":       limit("products"),
					"searchTitle": {Type: "string", Description: "Search for products by title"},
				},
			},
		},
		Tool{
			Name:        GetProductByID,
			Description: "Get a specific product by its ID",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"productId": {Type: "string", Description: "The Shopify product ID, numeric or gid://shopify/Product/<id>"},
				},
				Required: []string{"productId"},
			},
		},
		Tool{
			Name:        GetOrders,
			Description: "Get orders from the Shopify store",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"limit": limit("orders"),
					"status": {
						Type:        "string",
						Description: "Filter orders by status",
						Enum:        OrderStatuses,
						Default:     "any",
					},
				},
			},
		},
		Tool{
			Name:        GetCustomers,
			Description: "Get customers from the Shopify store",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"limit":       limit("customers"),
					"searchQuery": {Type: "string", Description: "Search query for customers"},
				},
			},
		},
		Tool{
			Name:        CreateProduct,
			Description: "Create a new product in the Shopify store",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"title":           {Type: "string", Description: "Product title"},
					"descriptionHtml": {Type: "string", Description: "Product description in HTML format"},
					"vendor":          {Type: "string", Description: "Product vendor"},
					"productType":     {Type: "string", Description: "Product type"},
					"tags": {
						Type:        "array",
						Description: "Product tags",
						Items:       &Property{Type: "string"},
					},
					"status": {
						Type:        "string",
						Description: "Product status",
						Enum:        ProductStatuses,
						Default:     "DRAFT",
					},
				},
				Required: []string{"title"},
			},
		},
		Tool{
			Name:        GetStoreInfo,
			Description: "Get basic information about the Shopify store",
			Parameters: Schema{
				Type:       "object",
				Properties: map[string]Property{},
			},
		},
	)
}
