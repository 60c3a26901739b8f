package client

import (
	"errors"
	"fmt"

	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
)

// APIError is an error envelope returned by the API.
type APIError struct {
	Status  int
	Code    pkgerrors.Code
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code pkgerrors.Code) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
