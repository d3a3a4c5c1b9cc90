package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/wjy1814-droid/memos/pkg/errors"
	"github.com/wjy1814-droid/memos/pkg/validator"
)

// bindAndValidate decodes the JSON body into T and runs struct validation.
// Unknown fields are rejected so clients cannot smuggle or misspell
// parameters silently. Errors are already translated to 400 AppErrors.
func bindAndValidate[T any](c *gin.Context) (*T, error) {
	var payload T

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, apperrors.NewBadRequest(strings.TrimPrefix(err.Error(), "json: "))
		}
		return nil, apperrors.NewBadRequest("invalid request body")
	}

	if err := validator.ValidateStruct(&payload); err != nil {
		return nil, formatValidationError(err)
	}

	return &payload, nil
}

func formatValidationError(err error) error {
	var failures validator.ValidationErrors
	if errors.As(err, &failures) && len(failures) > 0 {
		return apperrors.NewBadRequest(failures.Error())
	}
	return apperrors.NewBadRequest("validation failed")
}
