package github

import (
	"context"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"

	"ghbrowse/pkg/config"
)

// TokenEnvVar is the environment variable checked before the config file
const TokenEnvVar = "GITHUB_TOKEN"

// ResolveToken retrieves the GitHub token from the environment or the config file.
// An empty result means anonymous access.
func ResolveToken(cfg *config.Config) string {
	if token := os.Getenv(TokenEnvVar); token != "" {
		return strings.TrimSpace(token)
	}

	if cfg != nil && cfg.GitHub.Token != "" {
		return strings.TrimSpace(cfg.GitHub.Token)
	}

	return ""
}

// ValidateToken checks the configured token by fetching the authenticated user
func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	var user *github.User
	var scopeHeader string

	err := c.do(ctx, "authenticated user", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		user, resp, err = c.client.Users.Get(ctx, "")
		if resp != nil {
			scopeHeader = resp.Header.Get("X-OAuth-Scopes")
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	scopes := []string{}
	if scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	return &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}, nil
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `ghbrowse works without a token, but anonymous access is limited to 60 requests per hour.
Set up a token using one of the following methods:

1. Environment Variable:
   export GITHUB_TOKEN="your_personal_access_token"

2. Configuration File:
   Add the following to ~/.ghbrowse/config.yaml:

   github:
     token: "your_personal_access_token"

A classic or fine-grained token without any scopes is enough to browse public users and repositories.`
}
