package controllers

import (
	"net/http"

	"github.com/artesania-app/artesania-backend/api/responses"
	"github.com/artesania-app/artesania-backend/api/validators"
	artisansvc "github.com/artesania-app/artesania-backend/internal/artisans"
	"github.com/artesania-app/artesania-backend/pkg/logger"
)

// ApplyArtisan submits an artisan application for the authenticated user.
func ApplyArtisan(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input artisansvc.ApplyInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artisan, err := svc.Apply(r.Context(), uid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, artisan)
	}
}

// ArtisanStorefront is the public storefront page for an approved artisan.
func ArtisanStorefront(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artisanID, err := parseIDParam(r, "artisanId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storefront, err := svc.GetStorefront(r.Context(), artisanID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, storefront)
	}
}

// ArtisanDashboard aggregates sales figures for the acting artisan.
func ArtisanDashboard(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.GetDashboard(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}

// UpdateArtisanProfile edits the acting artisan's store fields.
func UpdateArtisanProfile(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input artisansvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artisan, err := svc.UpdateProfile(r.Context(), uid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, artisan)
	}
}

// AdminListPendingArtisans pages through applications awaiting review.
func AdminListPendingArtisans(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPending(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdminApproveArtisan approves a pending application.
func AdminApproveArtisan(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artisanID, err := parseIDParam(r, "artisanId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Approve(r.Context(), artisanID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "approved"})
	}
}

// AdminRejectArtisan rejects a pending application.
func AdminRejectArtisan(svc artisansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artisanID, err := parseIDParam(r, "artisanId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reject(r.Context(), artisanID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "rejected"})
	}
}
