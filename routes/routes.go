package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-admin/config"
	"catalog-admin/controllers"
)

// Setup mengonfigurasi dan mengembalikan Gin engine.
func Setup(ctrl *controllers.Controller, cfg *config.AppConfig, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(controllers.RequestID(), controllers.RequestLogger(log), ctrl.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", controllers.HeaderRequestID}
	r.Use(cors.New(corsConfig))

	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	api := r.Group("/api")
	{
		// Rute utilitas
		api.GET("/health", ctrl.HealthCheck)

		// Rute otentikasi
		api.POST("/login", ctrl.Login)
		api.POST("/logout", ctrl.Logout)
		api.GET("/session", ctrl.Session)
	}

	admin := api.Group("", ctrl.RequireSession())
	{
		admin.GET("/stats", ctrl.GetStats)
		admin.POST("/register", ctrl.Register)

		// Rute produk
		admin.GET("/products", ctrl.GetProducts)
		admin.POST("/products", ctrl.CreateProduct)
		admin.GET("/products/:id", ctrl.GetProduct)
		admin.PUT("/products/:id", ctrl.UpdateProduct)
		admin.DELETE("/products/:id", ctrl.DeleteProduct)
		admin.GET("/categories", ctrl.GetCategories)

		// Rute gambar produk
		admin.POST("/products/:id/images", ctrl.UploadProductImages)
		admin.PUT("/products/:id/images/:imageId/primary", ctrl.SetPrimaryImage)
		admin.DELETE("/products/:id/images/:imageId", ctrl.DeleteProductImage)

		// Proksi host gambar
		admin.POST("/upload-image", ctrl.UploadImage)
		admin.DELETE("/upload-image", ctrl.DeleteImage)

		// Rute admin
		admin.GET("/admins", ctrl.GetAdmins)
		admin.POST("/admins", ctrl.Register)
		admin.DELETE("/admins/:id", ctrl.DeleteAdmin)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
	return r
}
