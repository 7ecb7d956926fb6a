package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of a validation error list.
type FieldError struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

func init() {
	// report json names rather than Go field names in validation errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// abort writes {"detail": detail} with the given status.
func abort(c *gin.Context, status int, detail interface{}) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// bindJSON binds the request body and writes the error response on failure.
// Validation failures are 422 with a list of {loc, msg}; malformed bodies are 400.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		abort(c, http.StatusUnprocessableEntity, validationDetail(verrs))
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		abort(c, http.StatusUnprocessableEntity, []FieldError{{
			Loc: append([]interface{}{"body"}, splitPath(typeErr.Field)...),
			Msg: fmt.Sprintf("must be of type %s", typeErr.Type),
		}})
		return false
	}

	abort(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	return false
}

func validationDetail(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "CreateOrderRequest.items[0].quantity"; drop the type name
		ns := fe.Namespace()
		if _, rest, ok := strings.Cut(ns, "."); ok {
			ns = rest
		}
		out = append(out, FieldError{
			Loc: append([]interface{}{"body"}, splitPath(ns)...),
			Msg: fieldMessage(fe),
		})
	}
	return out
}

// splitPath turns "items[0].quantity" into ["items", 0, "quantity"].
func splitPath(path string) []interface{} {
	var out []interface{}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		name, idx, hasIdx := strings.Cut(part, "[")
		if name != "" {
			out = append(out, name)
		}
		if hasIdx {
			idx = strings.TrimSuffix(idx, "]")
			if n, err := strconv.Atoi(idx); err == nil {
				out = append(out, n)
			} else {
				out = append(out, idx)
			}
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must have at least %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
