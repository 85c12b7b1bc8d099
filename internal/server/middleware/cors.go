package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

type CORSConfig struct {
	// Origins matches the Origin header of browsers allowed to call the API.
	Origins *regexp.Regexp
	Methods []string
}

// CORS echoes matching origins back and answers preflight requests with the
// configured methods. Requests from other origins pass through without
// CORS headers and are left to the browser to reject.
func CORS(config CORSConfig) echo.MiddlewareFunc {
	methods := strings.Join(config.Methods, ", ")
	if methods == "" {
		methods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Add(echo.HeaderVary, echo.HeaderOrigin)

			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || config.Origins == nil || !config.Origins.MatchString(origin) {
				return next(c)
			}
			header.Set(echo.HeaderAccessControlAllowOrigin, origin)
			header.Set(echo.HeaderAccessControlExposeHeaders, XRequestID)

			if c.Request().Method != http.MethodOptions {
				return next(c)
			}
			header.Set(echo.HeaderAccessControlAllowMethods, methods)
			if reqHeaders := c.Request().Header.Get(echo.HeaderAccessControlRequestHeaders); reqHeaders != "" {
				header.Set(echo.HeaderAccessControlAllowHeaders, reqHeaders)
			} else {
				header.Set(echo.HeaderAccessControlAllowHeaders, strings.Join([]string{echo.HeaderContentType, XTriggeredBy, XRequestID}, ", "))
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}
