package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

func respondMessage(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, envelope{Success: true, Message: msg, Data: data})
}

func respondToken(c *gin.Context, msg, token string, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: msg, Token: token, Data: data})
}

// fail writes err as a JSON error and records it for the access log.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperr.KindOf(err)
	c.AbortWithStatusJSON(kind.Status(), envelope{Success: false, Message: apperr.Message(err)})
}

func failBinding(c *gin.Context, err error) {
	_ = c.Error(err)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Success: false, Message: "Invalid request body"})
		return
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: jsonField(fe), Message: fieldMessage(fe)})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Success: false, Message: "Validation failed", Errors: fields})
}

// jsonField drops the request type from the namespace, leaving the JSON path.
func jsonField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "objectid":
		return "must be a valid id"
	case "category", "orderstatus", "paymentmethod":
		return fmt.Sprintf("%v is not a valid %s", fe.Value(), fe.Tag())
	}
	return "is invalid"
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		fail(c, apperr.Newf(apperr.Validation, "Invalid %s", name))
		return primitive.NilObjectID, false
	}
	return id, true
}
