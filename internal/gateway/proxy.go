// Package gateway serves the same-origin proxy in front of the directory
// backend together with its operational endpoints.
package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// ProxyPrefix is the same-origin path the client talks to.
	ProxyPrefix = "/api/proxy"
	// UpstreamPrefix is where the backend serves its REST resources.
	UpstreamPrefix = "/api/v1"
)

// ProxyFailedMessage is the body error of a request the upstream never
// answered.
const ProxyFailedMessage = "Proxy request failed"

// NewProxy forwards ProxyPrefix/* to backendURL + UpstreamPrefix/*. Method,
// query string and body are preserved and the upstream status and body are
// passed through untouched, errors included.
func NewProxy(backendURL string, transport http.RoundTripper) ([]echo.MiddlewareFunc, error) {
	target, err := url.Parse(strings.TrimRight(backendURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", backendURL)
	}

	balancer := middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{Name: "backend", URL: target}})
	proxy := middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: balancer,
		Rewrite: map[string]string{
			ProxyPrefix + "/*": UpstreamPrefix + "/$1",
		},
		Transport: transport,
	})

	// virtual hosts on the backend side route by Host
	setHost := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Host = target.Host
			return next(c)
		}
	}
	return []echo.MiddlewareFunc{setHost, proxy}, nil
}
