package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"catalog-admin/apperr"
)

// fail menulis kesalahan sebagai {"error": ...} dengan status dari jenisnya.
func (ctrl *Controller) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := gin.H{"error": apperr.PublicMessage(err)}
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	if status >= http.StatusInternalServerError {
		ctrl.Log.Error("request failed",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

// bindError mengubah kesalahan binding gin menjadi kesalahan validasi.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.ValidationErr("Invalid request body", nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "is required"
		case "min":
			fields[name] = "must be at least " + fe.Param() + " characters"
		case "email":
			fields[name] = "must be a valid email address"
		default:
			fields[name] = "is invalid"
		}
	}
	return apperr.ValidationErr("Invalid request body", fields)
}
