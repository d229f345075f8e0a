// Package server assembles the gateway's gin engine.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
	"github.com/coosmos/Hotel-Management-Backend/services/api-gateway/internal/middlewares"
	"github.com/coosmos/Hotel-Management-Backend/services/api-gateway/internal/proxy"
)

type Options struct {
	Verifier    *auth.Verifier
	Routes      []proxy.Route
	Transport   http.RoundTripper
	CORSOrigins []string
	// PublicPaths are extra prefixes served without a token.
	PublicPaths []string
	Log         *logrus.Entry
}

func New(o Options) (*gin.Engine, error) {
	if o.Transport == nil {
		o.Transport = http.DefaultTransport
	}
	px, err := proxy.New(o.Routes, o.Transport, o.Log)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(proxy.Recovery(o.Log), obs.GinLogger(o.Log))
	if len(o.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(o.CORSOrigins)))
	}
	r.Use(middlewares.JWTAuth(o.Verifier, o.Log, o.PublicPaths...))

	httpx.Health(r)
	r.NoRoute(px.Handle)
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowOrigins = nil
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	return cfg
}
