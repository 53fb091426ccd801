package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"golang.org/x/oauth2"

	"counselhub/internal/auth"
	"counselhub/internal/config"
	"counselhub/internal/db"
	"counselhub/internal/models"
)

// AdminSSOHandler handles the optional OIDC login flow for admin accounts.
// The admin must already exist in admin_users; SSO only replaces the password
// step, it never provisions accounts.
type AdminSSOHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	db           *db.DB
	tokens       *auth.TokenManager
	cfg          *config.Config
}

// NewAdminSSOHandler creates a new SSO handler with OIDC configuration.
func NewAdminSSOHandler(ctx context.Context, cfg *config.Config, database *db.DB, tokens *auth.TokenManager) (*AdminSSOHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AdminSSOHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
		db:           database,
		tokens:       tokens,
		cfg:          cfg,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *AdminSSOHandler) Login(c fiber.Ctx) error {
	state := generateState()

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HTTPOnly: true,
		Secure:   !h.cfg.IsDev(),
		SameSite: "Lax",
		MaxAge:   300,
	})

	url := h.oauth2Config.AuthCodeURL(state)
	return c.Redirect().To(url)
}

// Callback handles the OIDC callback after authentication.
func (h *AdminSSOHandler) Callback(c fiber.Ctx) error {
	savedState := c.Cookies("oauth_state")
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: "", Expires: time.Now().Add(-time.Hour)})

	// Exchange code for token
	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	// Extract and verify ID token
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claimsMap := make(map[string]any)
	if err := idToken.Claims(&claimsMap); err != nil {
		return err
	}

	// Some OIDC providers only include minimal claims in the ID token, so
	// merge in the userinfo endpoint response when available.
	userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
	if err == nil {
		var userInfoClaims map[string]any
		if err := userInfo.Claims(&userInfoClaims); err == nil {
			for k, v := range userInfoClaims {
				claimsMap[k] = v
			}
		}
	} else {
		log.Printf("Warning: Failed to fetch userinfo: %v", err)
	}

	email, _ := claimsMap["email"].(string)
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "identity provider did not supply an email claim")
	}

	admin, err := h.db.GetAdminByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, db.ErrAdminNotFound) {
			return fiber.NewError(fiber.StatusForbidden, "no admin account for this identity")
		}
		return err
	}
	if !admin.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "admin account is disabled")
	}

	token, err := h.tokens.Issue(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return err
	}

	setAuthCookie(c, h.cfg, token)
	if err := h.db.TouchAdminLogin(c.Context(), admin.ID); err != nil {
		log.Printf("Warning: Failed to record admin login time: %v", err)
	}
	recordAudit(c, h.db, &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       models.AuditLogin,
		ResourceType: "admin_session",
		Details:      map[string]any{"method": "sso"},
		IPAddress:    c.IP(),
	})

	return c.Redirect().To("/admin")
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
