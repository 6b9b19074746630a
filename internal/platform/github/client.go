// Package github provides authenticated GitHub API clients.
package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v68/github"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

// Options selects how the client authenticates. A token takes precedence
// over GitHub App credentials.
type Options struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKeyPEM  string
	// BaseURL is the GitHub Enterprise API URL; empty for github.com.
	BaseURL string
}

// NewClient creates a GitHub API client. Outbound requests are traced with
// otelhttp so they join the run's spans when telemetry is enabled.
func NewClient(opts Options) (*gogithub.Client, error) {
	base := otelhttp.NewTransport(http.DefaultTransport)

	var transport http.RoundTripper
	switch {
	case opts.Token != "":
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   base,
		}
	case opts.AppID != 0:
		// The installation transport handles JWT generation and token refresh.
		itr, err := ghinstallation.New(base, opts.AppID, opts.InstallationID, []byte(opts.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("creating github installation transport: %w", err)
		}
		if opts.BaseURL != "" {
			itr.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
		}
		transport = itr
	default:
		return nil, errors.New("no github credentials configured")
	}

	client := gogithub.NewClient(&http.Client{Transport: transport})
	if opts.BaseURL == "" {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("configuring github enterprise url: %w", err)
	}
	return client, nil
}
