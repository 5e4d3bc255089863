package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/armando/shop-api/internal/core/service"
)

// NewRouter wires the HTTP surface. Product reads are public; everything
// else requires a valid token, and catalog writes require the admin role.
func NewRouter(auth *service.AuthService, products *service.ProductService, orders *service.OrderService) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	authHandler := NewAuthHandler(auth)
	productHandler := NewProductHandler(products)
	orderHandler := NewOrderHandler(orders)

	r.GET("/health", HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)

		protected := api.Group("/")
		protected.Use(AuthMiddleware(auth))
		{
			admin := protected.Group("/")
			admin.Use(AdminMiddleware())
			{
				admin.POST("/products", productHandler.Create)
				admin.PUT("/products/:id", productHandler.Update)
				admin.DELETE("/products/:id", productHandler.Delete)
			}

			protected.POST("/orders", orderHandler.Create)
			protected.GET("/orders", orderHandler.List)
			protected.GET("/orders/:id", orderHandler.Get)
			protected.PUT("/orders/:id", orderHandler.Update)
			protected.DELETE("/orders/:id", orderHandler.Delete)
		}
	}

	return r
}
