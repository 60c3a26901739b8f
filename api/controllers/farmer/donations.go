package farmer

import (
	"net/http"

	"github.com/fruitnut/fruitnut-backend/api/controllers/rolecontext"
	"github.com/fruitnut/fruitnut-backend/api/responses"
	"github.com/fruitnut/fruitnut-backend/api/validators"
	"github.com/fruitnut/fruitnut-backend/internal/donations"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
)

func donationServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "donation service unavailable")
}

func ListDonations(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, donationServiceUnavailable())
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForFarm(r.Context(), farmID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateDonation logs a donation from the farm.
func CreateDonation(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, donationServiceUnavailable())
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body donations.CreateDonationDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donation, err := svc.Create(r.Context(), farmID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, donation)
	}
}

// UpdateDonation edits a donation that has not been nullified.
func UpdateDonation(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, donationServiceUnavailable())
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		donationID, err := validators.ParseUUIDParam(r, "donationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body donations.UpdateDonationDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donation, err := svc.Update(r.Context(), farmID, donationID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, donation)
	}
}

// NullifyDonation voids a donation with a reason.
func NullifyDonation(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, donationServiceUnavailable())
			return
		}

		farmID, err := rolecontext.ResolveFarmID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		donationID, err := validators.ParseUUIDParam(r, "donationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body donations.NullifyDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donation, err := svc.Nullify(r.Context(), farmID, donationID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "donation_id", donationID.String()), "donation.nullified")
		}
		responses.WriteSuccess(w, donation)
	}
}
