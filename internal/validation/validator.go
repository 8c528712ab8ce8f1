// Package validation wires go-playground/validator into echo so handlers can
// call c.Validate on bound request bodies.
package validation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts a validator.Validate instance to echo's Validator
// interface.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator ready to be assigned to echo's Validator field.
func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks struct tags on the bound request body. Failures are
// converted to a 400 echo.HTTPError listing the offending fields so the
// client sees field-level detail without internals leaking.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return echo.NewHTTPError(http.StatusBadRequest,
		"invalid fields: "+strings.Join(fields, ", "))
}
