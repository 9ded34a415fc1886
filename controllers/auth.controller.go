package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-admin/apperr"
	"catalog-admin/auth"
	"catalog-admin/models"
)

// Login menangani proses login admin.
func (ctrl *Controller) Login(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.fail(c, bindError(err))
		return
	}

	admin, err := ctrl.Verifier.Login(ctx, req.Username, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) || apperr.Is(err, apperr.InvalidCredential) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.LoginFailedMsg})
			return
		}
		ctrl.fail(c, err)
		return
	}

	token, err := ctrl.Sessions.Request(c).Save(admin)
	if err != nil {
		ctrl.fail(c, apperr.Wrap(err))
		return
	}

	ctrl.Log.Info("admin signed in", zap.String("username", admin.Username))
	admin.PasswordHash = ""
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "admin": admin, "token": token})
}

// Logout menghapus sesi admin.
func (ctrl *Controller) Logout(c *gin.Context) {
	if err := ctrl.Sessions.Request(c).Clear(); err != nil {
		ctrl.fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Session mengembalikan identitas admin yang sedang masuk.
func (ctrl *Controller) Session(c *gin.Context) {
	admin, err := ctrl.currentAdmin(c)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// Register menangani registrasi admin baru.
func (ctrl *Controller) Register(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.fail(c, bindError(err))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		ctrl.fail(c, apperr.Wrap(err))
		return
	}

	admin, err := ctrl.Store.CreateAdmin(ctx, models.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	admin.PasswordHash = ""
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "admin": admin})
}

// GetAdmins menangani pengambilan semua data admin.
func (ctrl *Controller) GetAdmins(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	admins, err := ctrl.Store.ListAdmins(ctx)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	for i := range admins {
		admins[i].PasswordHash = ""
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// DeleteAdmin menangani penghapusan admin. Admin tidak dapat menghapus dirinya sendiri.
func (ctrl *Controller) DeleteAdmin(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	id := c.Param("id")
	if current, err := ctrl.currentAdmin(c); err == nil && current.ID == id {
		ctrl.fail(c, apperr.ValidationErr("You cannot delete your own account", nil))
		return
	}

	if err := ctrl.Store.DeleteAdmin(ctx, id); err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}
