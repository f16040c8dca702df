package api

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the domain tags to gin's validator engine.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected validator engine")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		rules := map[string]validator.Func{
			"objectid": func(fl validator.FieldLevel) bool {
				return primitive.IsValidObjectID(fl.Field().String())
			},
			"category": func(fl validator.FieldLevel) bool {
				return models.Category(fl.Field().String()).Valid()
			},
			"orderstatus": func(fl validator.FieldLevel) bool {
				return models.OrderStatus(fl.Field().String()).Valid()
			},
			"paymentmethod": func(fl validator.FieldLevel) bool {
				return models.PaymentMethod(fl.Field().String()).Valid()
			},
		}
		for tag, fn := range rules {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
