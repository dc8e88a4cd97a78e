package middleware

import (
	"net/http"
	"strings"

	"github.com/arjunmehra/shopkart-backend/api/responses"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
)

const userIDHeader = "X-User-Id"

// Identity trusts the user id forwarded by the API gateway. ShopKart
// terminates authentication at the edge, so by the time a request reaches
// this service the header is already verified.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(userIDHeader))
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
