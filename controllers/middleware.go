package controllers

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

var errSignedOut = apperr.UnauthorizedErr("Not signed in")

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxAdmin        = "admin"
)

// RequestID memberi setiap permintaan ID, memakai header klien bila ada.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// RequestLogger mencatat satu baris per permintaan.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		if status >= 500 {
			level = zapcore.ErrorLevel
		} else if status >= 400 {
			level = zapcore.WarnLevel
		}

		fields := []zap.Field{
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if ce := log.Check(level, "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

// Recovery mencatat panic beserta stack lalu membalas 500.
func (ctrl *Controller) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		ctrl.Log.Error("panic_recovered",
			zap.String("request_id", RequestIDFrom(c)),
			zap.Any("panic", recovered),
			zap.String("stack", string(debug.Stack())),
		)
		ctrl.fail(c, apperr.Wrap(fmt.Errorf("panic: %v", recovered)))
		c.Abort()
	})
}

// RequireSession menolak permintaan tanpa sesi admin yang sah.
// Token bearer didahulukan, lalu cookie admin_session.
func (ctrl *Controller) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := ctrl.currentAdmin(c)
		if apperr.Is(err, apperr.Unauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "Authentication required",
				"request_id": RequestIDFrom(c),
			})
			return
		}
		if err != nil {
			ctrl.fail(c, err)
			c.Abort()
			return
		}
		c.Set(ctxAdmin, admin)
		c.Next()
	}
}

// currentAdmin membaca sesi lalu mencocokkannya dengan tabel admin, sehingga
// admin yang dihapus atau dinonaktifkan kehilangan aksesnya.
func (ctrl *Controller) currentAdmin(c *gin.Context) (models.Admin, error) {
	if v, ok := c.Get(ctxAdmin); ok {
		if admin, ok := v.(models.Admin); ok {
			return admin, nil
		}
	}

	var (
		admin models.Admin
		ok    bool
	)
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		admin, ok = ctrl.Sessions.Token(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
	} else {
		admin, ok = ctrl.Sessions.Request(c).Read()
	}
	if !ok {
		return models.Admin{}, errSignedOut
	}

	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	stored, err := ctrl.Store.FindActiveAdmin(ctx, admin.Username)
	if apperr.Is(err, apperr.NotFound) || (err == nil && stored.ID != admin.ID) {
		ctrl.Log.Info("session revoked",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("username", admin.Username))
		return models.Admin{}, errSignedOut
	}
	if err != nil {
		return models.Admin{}, err
	}
	return stored, nil
}
