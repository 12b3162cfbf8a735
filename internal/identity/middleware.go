package identity

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/apperr"
	"github.com/imrishuroy/go-storefront/internal/envelope"
)

const (
	CookieName  = "token"
	HeaderName  = "x-access-token"
	subjectKey  = "identity.subject"
	bearerToken = "bearer"
)

// TokenFromRequest returns the credential from the token cookie, the
// x-access-token header or an Authorization bearer header, in that order.
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v
	}
	if v := strings.TrimSpace(c.GetHeader(HeaderName)); v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], bearerToken) {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireSubject rejects requests without a valid credential and stores
// the resolved subject on the context.
func RequireSubject(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFromRequest(c)
		if raw == "" {
			envelope.Fail(c, apperr.Unauthenticated("Unauthorised user!"))
			return
		}
		sub, err := r.Resolve(raw)
		if err != nil {
			envelope.Fail(c, apperr.Unauthenticated("Unauthorised user!"))
			return
		}
		c.Set(subjectKey, sub)
		c.Next()
	}
}

// RequireRole must run after RequireSubject.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := SubjectFrom(c)
		if !ok {
			envelope.Fail(c, apperr.Unauthenticated("Unauthorised user!"))
			return
		}
		if !sub.HasRole(roles...) {
			envelope.Fail(c, apperr.Unauthorized("Access denied"))
			return
		}
		c.Next()
	}
}

func SubjectFrom(c *gin.Context) (Subject, bool) {
	v, ok := c.Get(subjectKey)
	if !ok {
		return Subject{}, false
	}
	sub, ok := v.(Subject)
	return sub, ok
}
