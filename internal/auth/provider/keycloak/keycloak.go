package keycloak

import (
	"context"
	"errors"
	"fmt"

	"github.com/Food-Locker/consumer/internal/auth"
	"github.com/Food-Locker/consumer/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "keycloak"

// Provider implements OAuth + OIDC authentication against Keycloak.
// It returns identity facts only; no profile or session decisions are
// made here.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New initializes a Keycloak OIDC provider using discovery.
// issuer must be the realm issuer URL, e.g.
// http://localhost:8081/realms/food-locker
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	redirectURL string,
	publicBaseURL string,
) (*Provider, error) {

	if issuer == "" || clientID == "" || redirectURL == "" || publicBaseURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	// The auth URL must go through the public base so the kiosk browser
	// can reach it; the discovery document points at the internal host.
	ep := oidcProvider.Endpoint()
	ep.AuthURL = publicBaseURL + "/realms/food-locker/protocol/openid-connect/auth"

	oauthCfg := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Endpoint:    ep,
		Scopes: []string{
			oidc.ScopeOpenID,
			"email",
			"profile",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code and returns a normalized identity.
// This method MUST NOT create profiles, sessions, or perform linking logic.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		logger.Error("keycloak token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("keycloak did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		logger.Error("keycloak id_token verification failed", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	var claims struct {
		Subject           string `json:"sub"`
		Email             string `json:"email"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("keycloak id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("keycloak id_token missing subject claim")
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.PreferredUsername
	}

	logger.Info("keycloak oidc verified", map[string]any{
		"issuer":             idToken.Issuer,
		"subject_present":    claims.Subject != "",
		"email_present":      claims.Email != "",
		"preferred_username": claims.PreferredUsername,
		"audience":           idToken.Audience,
		"expiry_unix":        idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		ExternalID:  claims.Subject,
		DisplayName: displayName,
		Email:       claims.Email,
	}, nil
}
