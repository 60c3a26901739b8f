package controllers

import (
	"net/http"

	"github.com/fruitnut/fruitnut-backend/api/responses"
	"github.com/fruitnut/fruitnut-backend/api/validators"
	"github.com/fruitnut/fruitnut-backend/internal/centers"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
)

// CentersList pages through donation centers for the role-setup join list.
func CentersList(svc centers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "center service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
