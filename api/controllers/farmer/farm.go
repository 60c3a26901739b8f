package farmer

import (
	"net/http"

	"github.com/fruitnut/fruitnut-backend/api/controllers/rolecontext"
	"github.com/fruitnut/fruitnut-backend/api/responses"
	"github.com/fruitnut/fruitnut-backend/api/validators"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/internal/reports"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
)

// Farm returns the settings of the active farmer's farm.
func Farm(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.Get(r.Context(), farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// UpdateFarm edits the farm settings.
func UpdateFarm(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body farms.UpdateFarmDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.Update(r.Context(), farmID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// Report aggregates the farm's harvest and donation figures.
func Report(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Farmer(r.Context(), farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
