package cookies

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"sectors-server/internal/shared/config"
)

// AuthCookieName is the cookie carrying the session JWT.
const AuthCookieName = "auth_token"

// OwnerCookieName is the cookie carrying the anonymous owner token that ties
// generated and local sectors to a browser.
const OwnerCookieName = "sector_owner"

const ownerCookieMaxAge = 400 * 24 * 60 * 60

func SetAuthCookie(w http.ResponseWriter, token string) {
	cookie := authCookie(config.GlobalConfig)
	cookie.Value = token
	cookie.MaxAge = int(config.GlobalConfig.Auth.TokenExpiration.Seconds())

	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	cookie := authCookie(config.GlobalConfig)
	cookie.MaxAge = -1

	http.SetCookie(w, cookie)
}

// SetOwnerCookie stores the anonymous owner token for as long as browsers
// keep cookies.
func SetOwnerCookie(w http.ResponseWriter, token string) {
	cookie := baseCookie(config.GlobalConfig, OwnerCookieName)
	cookie.Value = token
	cookie.MaxAge = ownerCookieMaxAge

	http.SetCookie(w, cookie)
}

func authCookie(cfg *config.Config) *http.Cookie {
	return baseCookie(cfg, AuthCookieName)
}

func baseCookie(cfg *config.Config, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Domain:   cookieDomain(cfg.Frontend.URL),
		HttpOnly: true,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: parseSameSite(cfg.Auth.CookieSameSite),
	}
}

// cookieDomain is empty for local and IP hosts so the browser scopes the
// cookie to the exact host.
func cookieDomain(frontendURL string) string {
	u, err := url.Parse(frontendURL)
	if err != nil {
		return ""
	}

	host := u.Hostname()
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	return host
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
