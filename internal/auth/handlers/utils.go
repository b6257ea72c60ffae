package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sectors-server/internal/shared/config"
)

// resolveRedirectURI accepts a client-supplied redirect only when it points
// at the configured frontend origin. Anything else falls back to the
// frontend URL.
func resolveRedirectURI(raw string) string {
	frontend := strings.TrimRight(config.GlobalConfig.Frontend.URL, "/")
	if raw == "" {
		return frontend
	}

	requested, err := url.Parse(raw)
	if err != nil {
		return frontend
	}
	allowed, err := url.Parse(frontend)
	if err != nil || requested.Scheme != allowed.Scheme || requested.Host != allowed.Host {
		return frontend
	}
	return strings.TrimRight(requested.String(), "/")
}

// redirectWithError sends the browser back to the frontend error page.
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = strings.TrimRight(config.GlobalConfig.Frontend.URL, "/")
	}
	errorURL := fmt.Sprintf("%s/auth/error?error=%s", redirectURI, url.QueryEscape(errorType))

	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
