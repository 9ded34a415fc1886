package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck memeriksa status koneksi database.
func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "connected"
	if err := ctrl.Store.Ping(ctx); err != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  dbStatus,
		"timestamp": time.Now().Unix(),
	})
}

// GetStats mengambil data statistik dari aplikasi.
func (ctrl *Controller) GetStats(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	stats, err := ctrl.Store.Stats(ctx)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
