package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/envelope"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// RegisterAuthRoutes registers sign-up, login, logout and check-auth.
// Admins cannot self-register.
func RegisterAuthRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	register := func(role identity.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			var req validation.RegisterRequest
			if err := validation.BindAndValidate(c, &req, v); err != nil {
				return
			}
			acct, err := cfg.Accounts.Register(c.Request.Context(), accounts.RegisterInput{
				FullName: req.FullName,
				Email:    req.Email,
				Password: req.Password,
				Role:     role,
			})
			if err != nil {
				envelope.Fail(c, err)
				return
			}
			envelope.OK(c, http.StatusCreated, "Registration successful", acct)
		}
	}

	login := func(role identity.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			var req validation.LoginRequest
			if err := validation.BindAndValidate(c, &req, v); err != nil {
				return
			}
			session, err := cfg.Accounts.Login(c.Request.Context(), accounts.LoginInput{
				Email:    req.Email,
				Password: req.Password,
				Role:     role,
			})
			if err != nil {
				envelope.Fail(c, err)
				return
			}
			setTokenCookie(c, session.Token, time.Until(session.ExpiresAt), cfg.CookieSecure)
			envelope.OK(c, http.StatusOK, "Logged in successfully", gin.H{
				"user":      session.Account,
				"token":     session.Token,
				"expiresAt": session.ExpiresAt,
			})
		}
	}

	r.POST("/api/auth/register", register(identity.RoleCustomer))
	r.POST("/api/seller/auth/register", register(identity.RoleSeller))

	r.POST("/api/user/auth/login", login(identity.RoleCustomer))
	r.POST("/api/seller/auth/login", login(identity.RoleSeller))
	r.POST("/api/admin/auth/login", login(identity.RoleAdmin))

	r.POST("/api/auth/logout", func(c *gin.Context) {
		setTokenCookie(c, "", -time.Second, cfg.CookieSecure)
		envelope.OK(c, http.StatusOK, "Logged out successfully", nil)
	})

	r.GET("/api/auth/check-auth", identity.RequireSubject(cfg.Resolver), func(c *gin.Context) {
		sub, _ := identity.SubjectFrom(c)
		envelope.OK(c, http.StatusOK, "Authenticated user", sub)
	})
}

// setTokenCookie writes the HttpOnly credential cookie; a negative ttl
// deletes it.
func setTokenCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(identity.CookieName, token, maxAge, "/", "", secure, true)
}
