package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kits249/storefront-api/docs"
	"github.com/kits249/storefront-api/internal/config"
	"github.com/kits249/storefront-api/internal/httpx"
	"github.com/kits249/storefront-api/internal/order"
	"github.com/kits249/storefront-api/internal/payment"
)

// @title        249 Kits API
// @version      1.0
// @description  Storefront order and payment reconciliation API.
// @BasePath     /api
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[store-api] postgres: %v", err)
	}
	defer pool.Close()

	repo := order.NewPGRepo(pool)
	gw := payment.NewClient(payment.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		APIBase:       cfg.StripeAPIBase,
		Timeout:       cfg.GatewayTimeout,
	})
	wf := order.NewWorkflow(repo, gw)

	r := newRouter(cfg, wf, repo)
	log.Printf("[store-api] listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}

func newRouter(cfg config.Config, wf *order.Workflow, repo order.Repository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.POST("/create-payment-intent", createPaymentIntentHandler(wf))
		api.POST("/orders", createOrderHandler(wf))
		api.GET("/orders/:id", getOrderHandler(repo))
		api.GET("/orders", listOrdersHandler(repo))
		api.GET("/shipping-zones", shippingZonesHandler())
		api.POST("/stripe-webhook", stripeWebhookHandler(wf))
	}
	return r
}
