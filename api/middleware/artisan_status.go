package middleware

import (
	"context"
	"net/http"

	"github.com/artesania-app/artesania-backend/api/responses"
	"github.com/artesania-app/artesania-backend/pkg/db"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/logger"
	"github.com/google/uuid"
)

// ArtisanStatusChecker resolves the artisan profile bound to a user.
type ArtisanStatusChecker interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error)
}

// RequireApprovedArtisan blocks artisan surfaces until the application has been
// approved. The profile is re-read from storage on every request so a revoked
// approval takes effect before the token expires.
func RequireApprovedArtisan(checker ArtisanStatusChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			artisan, err := checker.FindByUserID(r.Context(), userID)
			if err != nil {
				translated := db.Translate(err, "artisan")
				if typed := pkgerrors.As(translated); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "user has no artisan profile"))
					return
				}
				responses.WriteError(r.Context(), logg, w, translated)
				return
			}
			if artisan.Status != enums.ArtisanStatusApproved {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "artisan is not approved"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
