package http

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/utafrali/storefront/internal/cart"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/middleware"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// StoreProvider returns the loaded cart store of a session.
type StoreProvider interface {
	Get(ctx context.Context, sessionID string) *cart.Store
}

// ProvideCart is the cart's provisioning scope. It reads the X-Session-ID
// header, loads that session's store and places it in the request context
// for cart.FromContext. Requests without a usable session are rejected with
// 401 SESSION_REQUIRED.
func ProvideCart(stores StoreProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(middleware.SessionHeader))
			if sessionID == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("SESSION_REQUIRED", middleware.SessionHeader+" header is required"), nil)
				return
			}
			if !sessionIDPattern.MatchString(sessionID) {
				httputil.WriteError(w, r, apperrors.Unauthorized("SESSION_REQUIRED", middleware.SessionHeader+" header is malformed"), nil)
				return
			}

			ctx := logger.WithSessionID(r.Context(), sessionID)
			ctx = cart.NewContext(ctx, stores.Get(ctx, sessionID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
