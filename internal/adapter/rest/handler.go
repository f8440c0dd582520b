package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storepilot/internal/agent"
	"storepilot/internal/core"
	"storepilot/internal/model"
	"storepilot/internal/shopify"
	"storepilot/internal/tools"
)

const shutdownTimeout = 10 * time.Second

type Adapter struct {
	Agent  agent.Agent
	Store  core.Catalog
	Logger *zap.Logger
	Port   string
}

func NewAdapter(port string, a agent.Agent, store core.Catalog, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		Agent:  a,
		Store:  store,
		Logger: logger,
		Port:   port,
	}
}

// Router builds the gin engine with every route registered.
func (a *Adapter) Router() *gin.Engine {
	r := gin.New()
	// Lets a percent-encoded gid ("gid:%2F%2Fshopify%2FProduct%2F1") reach :id.
	r.UseRawPath = true
	r.Use(requestID(), accessLog(a.Logger), gin.Recovery())

	r.POST("/chat", a.handleChat)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "AI Agent"})
	})

	r.GET("/products", a.handleProducts)
	r.GET("/product/:id", a.handleProduct)
	r.GET("/orders", a.handleOrders)
	r.GET("/customers", a.handleCustomers)
	r.POST("/product", a.handleCreateProduct)
	r.GET("/store-info", a.handleStoreInfo)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (a *Adapter) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("Starting REST API server", zap.String("port", a.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutting down REST API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *Adapter) handleChat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	reply, err := a.Agent.Chat(c.Request.Context(), req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		a.Logger.Error("Chat failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (a *Adapter) handleProducts(c *gin.Context) {
	data, err := a.Store.Products(c.Request.Context(), shopify.ProductsParams{
		Limit:       queryLimit(c),
		SearchTitle: c.Query("searchTitle"),
	})
	a.passthrough(c, data, err)
}

func (a *Adapter) handleProduct(c *gin.Context) {
	gid, err := shopify.ProductGID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := a.Store.ProductByID(c.Request.Context(), gid)
	a.passthrough(c, data, err)
}

func (a *Adapter) handleOrders(c *gin.Context) {
	status := c.DefaultQuery("status", "any")
	if !slices.Contains(tools.OrderStatuses, status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of " + strings.Join(tools.OrderStatuses, ", ")})
		return
	}
	data, err := a.Store.Orders(c.Request.Context(), shopify.OrdersParams{
		Limit:  queryLimit(c),
		Status: status,
	})
	a.passthrough(c, data, err)
}

func (a *Adapter) handleCustomers(c *gin.Context) {
	data, err := a.Store.Customers(c.Request.Context(), shopify.CustomersParams{
		Limit:       queryLimit(c),
		SearchQuery: c.Query("searchQuery"),
	})
	a.passthrough(c, data, err)
}

func (a *Adapter) handleCreateProduct(c *gin.Context) {
	var req model.NewProduct
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product title is required"})
		return
	}
	if req.Status != "" && !slices.Contains(tools.ProductStatuses, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of " + strings.Join(tools.ProductStatuses, ", ")})
		return
	}

	data, err := a.Store.CreateProduct(c.Request.Context(), shopify.ProductInput{
		Title:           req.Title,
		DescriptionHTML: req.DescriptionHTML,
		Vendor:          req.Vendor,
		ProductType:     req.ProductType,
		Tags:            req.Tags,
		Status:          req.Status,
	})
	a.passthrough(c, data, err)
}

func (a *Adapter) handleStoreInfo(c *gin.Context) {
	data, err := a.Store.StoreInfo(c.Request.Context())
	a.passthrough(c, data, err)
}

// passthrough writes the backend JSON unchanged. Backend failures are also
// reported with 200 and an {"error": ...} body.
func (a *Adapter) passthrough(c *gin.Context, data json.RawMessage, err error) {
	if err != nil {
		a.Logger.Warn("Backend request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// queryLimit reads ?limit=, falling back to the default when it is absent
// or not an integer.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return shopify.DefaultLimit
	}
	return limit
}
