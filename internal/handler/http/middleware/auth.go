package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/jwt"
)

type principalKey struct{}

// AuthRequired accepts verified access tokens and stores the caller principal in the request context
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token type")
				return
			}

			principal, err := jwt.PrincipalFromClaims(claims)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		}
		return http.HandlerFunc(hfn)
	}
}

// WithPrincipal attaches p to ctx
func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromRequest returns the caller set by AuthRequired
func PrincipalFromRequest(r *http.Request) (user.Principal, bool) {
	p, ok := r.Context().Value(principalKey{}).(user.Principal)
	return p, ok
}
