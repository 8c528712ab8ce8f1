package gateway

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/middleware"
	"github.com/rosterd/rosterd/internal/token"
)

// New builds the gateway's echo instance: rate limiting, the auth filter and
// two proxy groups. /api/auth/* is forwarded to the auth service; every other
// /api/* path goes to the roster service. Upstream URLs come from the
// gateway configuration.
func New(cfg config.GatewayConfig, tokens *token.Service, rdb *redis.Client) (*echo.Echo, error) {
	authURL, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return nil, err
	}
	rosterURL, err := url.Parse(cfg.RosterURL)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(AuthFilter(tokens))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	authProxy := echomw.Proxy(echomw.NewRoundRobinBalancer([]*echomw.ProxyTarget{{URL: authURL}}))
	rosterProxy := echomw.Proxy(echomw.NewRoundRobinBalancer([]*echomw.ProxyTarget{{URL: rosterURL}}))

	e.Group("/api/auth", authProxy)
	e.Group("/api", rosterProxy)

	return e, nil
}
