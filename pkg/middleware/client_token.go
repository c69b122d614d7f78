package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	HeaderClientToken = "X-Client-Token"
	cookieClientToken = "PLANTCARE_TOKEN"
)

// ClientToken guards routes with a shared token. An empty token disables the
// guard. The token may come from the header, the cookie, or a `token` query
// parameter; the last is for EventSource, which cannot set headers, and
// plants the cookie for later requests.
func ClientToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}
			got := c.Request().Header.Get(HeaderClientToken)
			if got == "" {
				if ck, err := c.Cookie(cookieClientToken); err == nil {
					got = ck.Value
				}
			}
			if got == "" {
				if q := c.QueryParam("token"); q != "" && matches(q, token) {
					c.SetCookie(&http.Cookie{Name: cookieClientToken, Value: q, Path: "/", HttpOnly: true, SameSite: http.SameSiteStrictMode})
					got = q
				}
			}
			if !matches(got, token) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid client token"})
			}
			return next(c)
		}
	}
}

func matches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
