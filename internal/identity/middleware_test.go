package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(r *Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/me", RequireSubject(r), func(c *gin.Context) {
		sub, _ := SubjectFrom(c)
		c.String(http.StatusOK, sub.ID+":"+string(sub.Role))
	})
	e.GET("/seller", RequireSubject(r), RequireRole(RoleSeller, RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return e
}

func issue(t *testing.T, role Role) string {
	t.Helper()
	tok, _, err := NewIssuer("secret", time.Hour).Issue(Subject{ID: "u-9", Role: role}, time.Now())
	require.NoError(t, err)
	return tok
}

func TestRequireSubject_TokenSources(t *testing.T) {
	e := newRouter(NewResolver("secret"))
	tok := issue(t, RoleCustomer)

	for name, set := range map[string]func(*http.Request){
		"cookie": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: tok}) },
		"header": func(r *http.Request) { r.Header.Set(HeaderName, tok) },
		"bearer": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) },
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			set(req)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "u-9:customer", w.Body.String())
		})
	}
}

func TestRequireSubject_Missing(t *testing.T) {
	e := newRouter(NewResolver("secret"))

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderName, "garbage")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	e := newRouter(NewResolver("secret"))

	req := httptest.NewRequest(http.MethodGet, "/seller", nil)
	req.Header.Set(HeaderName, issue(t, RoleCustomer))
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/seller", nil)
	req.Header.Set(HeaderName, issue(t, RoleAdmin))
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
