// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/constants"
)

// Identity endpoints for supported social providers.
const (
	githubUserEndpoint     = "https://api.github.com/user"
	googleUserinfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// ProviderVerifier checks that a client-supplied provider access token
// resolves to a real identity at the named provider.
//
// # Why an interface?
//
// Defining the contract here lets service tests substitute a fake verifier
// instead of calling GitHub or Google over the network.
type ProviderVerifier interface {
	Verify(context context.Context, provider string, accessToken string) error
}

// HTTPProviderVerifier implements [ProviderVerifier] against the real
// GitHub and Google identity endpoints.
//
// The client never performs a full OAuth code exchange here: the frontend
// completes the OAuth flow and sends the resulting access token, which we
// replay against the provider's identity endpoint to prove it is genuine.
type HTTPProviderVerifier struct{}

// Enforce interface compliance at compile time.
var _ ProviderVerifier = (*HTTPProviderVerifier)(nil)

// NewProviderVerifier constructs the default HTTP verifier.
func NewProviderVerifier() *HTTPProviderVerifier {
	return &HTTPProviderVerifier{}
}

// githubIdentity is the portion of the GitHub /user response we care about.
type githubIdentity struct {
	AvatarURL string `json:"avatar_url"`
}

// googleIdentity is the portion of the Google userinfo response we care about.
type googleIdentity struct {
	Email string `json:"email"`
}

/*
Verify calls the provider's identity endpoint with the supplied access token.

A GitHub identity is recognized by the presence of an avatar URL; a Google
identity by the presence of an email. Anything else fails BadRequest, which
also covers revoked and fabricated tokens.

Parameters:
  - context: context.Context
  - provider: string ("github" or "google")
  - accessToken: string (bearer token obtained by the frontend OAuth flow)

Returns:
  - error: apperr.BadRequest when the identity cannot be established
*/
func (verifier *HTTPProviderVerifier) Verify(context context.Context, provider string, accessToken string) error {

	verifyCtx, cancel := stdContextWithTimeout(context)
	defer cancel()

	// oauth2.NewClient injects "Authorization: Bearer <token>" on every request
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(verifyCtx, tokenSource)

	switch provider {
	case AuthMethodGitHub:
		var identity githubIdentity
		if err := fetchIdentity(verifyCtx, client, githubUserEndpoint, &identity); err != nil {
			return err
		}
		if identity.AvatarURL == "" {
			return apperr.BadRequest("GitHub did not return a recognizable identity")
		}
		return nil

	case AuthMethodGoogle:
		var identity googleIdentity
		if err := fetchIdentity(verifyCtx, client, googleUserinfoEndpoint, &identity); err != nil {
			return err
		}
		if identity.Email == "" {
			return apperr.BadRequest("Google did not return a recognizable identity")
		}
		return nil

	default:
		return apperr.BadRequest("Unsupported social provider")
	}
}

// fetchIdentity performs the GET and decodes the identity payload.
func fetchIdentity(ctx context.Context, client *http.Client, endpoint string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperr.Internal(err)
	}

	response, err := client.Do(request)
	if err != nil {
		return apperr.BadRequest("Social provider could not be reached")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return apperr.BadRequest("Social provider rejected the access token")
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return apperr.BadRequest("Social provider returned an unreadable identity")
	}

	return nil
}

// stdContextWithTimeout bounds provider calls with the platform timeout.
func stdContextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.ProviderTimeout)
}
