// Package router registers the loyalty API routes.
package router

import (
	"net/http"

	"frutas/internal/delivery/api/middleware"
	"frutas/internal/delivery/api/router/handler"
	"frutas/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	MenuHandler    *handler.MenuHandler
	ReceiptHandler *handler.ReceiptHandler
	RewardHandler  *handler.RewardHandler
	MeHandler      *handler.MeHandler
	UserHandler    *handler.UserHandler
	AuthMiddleware *middleware.AuthMiddleware

	// MetricsHandler is optional; /metrics is not registered without it.
	MetricsHandler http.Handler `name:"metrics" optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	menuHandler    *handler.MenuHandler
	receiptHandler *handler.ReceiptHandler
	rewardHandler  *handler.RewardHandler
	meHandler      *handler.MeHandler
	userHandler    *handler.UserHandler
	authMiddleware *middleware.AuthMiddleware
	metricsHandler http.Handler
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		menuHandler:    params.MenuHandler,
		receiptHandler: params.ReceiptHandler,
		rewardHandler:  params.RewardHandler,
		meHandler:      params.MeHandler,
		userHandler:    params.UserHandler,
		authMiddleware: params.AuthMiddleware,
		metricsHandler: params.MetricsHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	if r.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(r.metricsHandler))
	}

	auth := r.authMiddleware
	adminOnly := auth.RequireRoles(entity.RoleAdmin)
	staff := auth.RequireRoles(entity.RoleOperator, entity.RoleAdmin)

	apiV1 := e.Group("/api/v1")

	// Catalog is public for reading
	menuGroup := apiV1.Group("/menu-items")
	{
		menuGroup.GET("", r.menuHandler.ListMenuItems)
		menuGroup.GET("/:id", r.menuHandler.GetMenuItem)
		menuGroup.POST("", r.menuHandler.CreateMenuItem, auth.Authenticate, adminOnly)
		menuGroup.PUT("/:id", r.menuHandler.UpdateMenuItem, auth.Authenticate, adminOnly)
		menuGroup.DELETE("/:id", r.menuHandler.DeleteMenuItem, auth.Authenticate, adminOnly)
	}

	receiptsGroup := apiV1.Group("/receipts", auth.Authenticate)
	{
		receiptsGroup.POST("/finalize", r.receiptHandler.FinalizeReceipt, staff)
		receiptsGroup.GET("/code/:code/qr", r.receiptHandler.ReceiptQR, staff)
		receiptsGroup.POST("/claim", r.receiptHandler.ClaimReceipt)
		receiptsGroup.GET("", r.receiptHandler.ListReceipts, adminOnly)
		receiptsGroup.GET("/:id", r.receiptHandler.GetReceipt, adminOnly)
	}

	rewardsGroup := apiV1.Group("/rewards", auth.Authenticate)
	{
		rewardsGroup.GET("", r.rewardHandler.ListRewards)
		rewardsGroup.POST("/:id/redeem", r.rewardHandler.RedeemReward)
		rewardsGroup.POST("", r.rewardHandler.CreateReward, adminOnly)
		rewardsGroup.PUT("/:id", r.rewardHandler.UpdateReward, adminOnly)
	}

	meGroup := apiV1.Group("/me", auth.Authenticate)
	{
		meGroup.GET("", r.meHandler.GetMe)
		meGroup.PUT("", r.meHandler.UpdateMe)
		meGroup.GET("/receipts", r.meHandler.ListMyReceipts)
		meGroup.GET("/ledger", r.meHandler.ListMyLedger)
		meGroup.GET("/rewards", r.meHandler.ListMyRedemptions)
	}

	usersGroup := apiV1.Group("/users", auth.Authenticate, adminOnly)
	{
		usersGroup.GET("", r.userHandler.ListUsers)
		usersGroup.PUT("/:id/points", r.userHandler.SetPoints)
	}
}
