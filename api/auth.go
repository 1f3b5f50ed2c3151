package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type token struct {
	Token string `json:"token"`
}

// Authenticate exchanges the username and password for a bearer token that is
// used for all subsequent calls.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	request := credentials{
		Username: username,
		Password: password,
	}

	var response token
	if err := c.do(ctx, http.MethodPost, "/auth", request, &response, false); err != nil {
		return "", err
	}

	if response.Token == "" {
		return "", fmt.Errorf("empty token in authentication response")
	}

	c.token = response.Token
	c.expires = expiry(response.Token)
	c.credentials = request

	if !c.expires.IsZero() {
		c.log.Debug("authenticated", "expires", c.expires.Format(time.RFC3339))
	}

	return response.Token, nil
}

// renew re-authenticates if the current token is a JWT that is about to expire.
func (c *Client) renew(ctx context.Context) error {
	if c.expires.IsZero() || c.credentials.Username == "" {
		return nil
	}

	if c.expires.Sub(c.now()) > refreshMargin {
		return nil
	}

	c.log.Info("renewing expired API token", "expires", c.expires.Format(time.RFC3339))

	if _, err := c.Authenticate(ctx, c.credentials.Username, c.credentials.Password); err != nil {
		return fmt.Errorf("error renewing API token (%w)", err)
	}

	return nil
}

// expiry returns the 'exp' claim of a JWT bearer token or the zero time if the
// token is opaque. The signature is not verified - the token is only inspected.
func expiry(t string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t, claims); err != nil {
		return time.Time{}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		return exp.Time
	}

	return time.Time{}
}
