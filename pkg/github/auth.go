package github

import (
	"context"
	"net/http"

	ghauth "github.com/jferrl/go-githubauth"
	log "github.com/sirupsen/logrus"
	"github.com/tcnksm/go-gitconfig"
	"golang.org/x/oauth2"
)

// Credentials selects how the client authenticates. A GitHub App installation wins over a token
// when AppID, InstallationID and AppPrivateKey are all set.
type Credentials struct {
	Token          string
	AppID          int64
	InstallationID int64
	AppPrivateKey  []byte
}

func (c Credentials) HasApp() bool {
	return c.AppID != 0 && c.InstallationID != 0 && len(c.AppPrivateKey) > 0
}

func (c Credentials) IsZero() bool {
	return c.Token == "" && !c.HasApp()
}

// TokenFromGitConfig reads github.token from the local git config, for runs outside of Actions.
func TokenFromGitConfig() string {
	token, err := gitconfig.GithubToken()
	if err != nil {
		log.WithError(err).Debug("unable to retrieve GitHub token from git config")
		return ""
	}
	return token
}

func newGHAuthClient(ctx context.Context, creds Credentials) *http.Client {
	if creds.HasApp() {
		if tokenSource := newAppTokenSource(creds); tokenSource != nil {
			// self-renewing token scoped to the installation
			installationTokenSource := ghauth.NewInstallationTokenSource(creds.InstallationID, tokenSource, ghauth.WithContext(ctx))
			log.Infof("using GitHub App credentials for installation %d", creds.InstallationID)
			return oauth2.NewClient(ctx, installationTokenSource)
		}
	}

	if creds.Token != "" {
		log.Debug("using GitHub access token")
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: creds.Token},
		)
		return oauth2.NewClient(ctx, ts)
	}

	// make a no-auth client if no token is available
	log.Warningf("using unauthenticated GitHub client, requests will be rate-limited")
	return nil
}

func newAppTokenSource(creds Credentials) oauth2.TokenSource {
	appTokenSource, err := ghauth.NewApplicationTokenSource(creds.AppID, creds.AppPrivateKey)
	if err != nil {
		log.Errorf("Error creating application token source: %s", err)
		return nil
	}
	return appTokenSource
}
