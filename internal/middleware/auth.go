package middleware

import (
	"context"
	"errors"
	"net/http"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/utils"
)

// PrincipalResolver loads the current state of the user behind a token.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uint) (*auth.Principal, error)
}

/*
Authenticate turns a bearer token into a principal on the request context.

- no Authorization header: the request continues anonymously and the
  service layer decides whether that is enough
- a header that does not verify: 401 envelope, the handler never runs
- a valid token: the user row is re-read so role and status are current
*/
func Authenticate(resolver PrincipalResolver, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if errors.Is(err, utils.ErrMissingAuthHeader) && r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				utils.WriteError(w, apperrors.ErrUnauthenticated.WithMessage("invalid token"))
				return
			}
			userID, err := utils.GetUserIDFromClaims(claims)
			if err != nil {
				utils.WriteError(w, apperrors.ErrUnauthenticated.WithMessage("invalid token claims"))
				return
			}
			p, err := resolver.ResolvePrincipal(r.Context(), userID)
			if err != nil {
				utils.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}
