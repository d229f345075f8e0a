// Package proxy forwards gateway traffic to the owning service by path prefix.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Route struct {
	Prefix string
	Target string
}

type upstream struct {
	prefix string
	rp     *httputil.ReverseProxy
}

// Proxy picks the upstream whose prefix is the longest match for the path.
type Proxy struct {
	ups []upstream
	log *logrus.Entry
}

func New(routes []Route, transport http.RoundTripper, log *logrus.Entry) (*Proxy, error) {
	p := &Proxy{log: log}
	for _, r := range routes {
		target, err := url.Parse(r.Target)
		if err != nil || target.Host == "" {
			return nil, fmt.Errorf("route %s: invalid target %q", r.Prefix, r.Target)
		}
		rp := httputil.NewSingleHostReverseProxy(target)
		rp.Transport = transport
		rp.ErrorHandler = p.upstreamError(r.Prefix)
		p.ups = append(p.ups, upstream{prefix: r.Prefix, rp: rp})
	}
	sort.Slice(p.ups, func(i, j int) bool { return len(p.ups[i].prefix) > len(p.ups[j].prefix) })
	return p, nil
}

func matches(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}

// Handle is mounted as the engine's NoRoute handler.
func (p *Proxy) Handle(c *gin.Context) {
	path := c.Request.URL.Path
	for _, u := range p.ups {
		if matches(path, u.prefix) {
			u.rp.ServeHTTP(c.Writer, c.Request)
			return
		}
	}
	WriteError(c, http.StatusNotFound, "Service not found. The requested service might be down or unavailable.")
}

func (p *Proxy) upstreamError(prefix string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		p.log.WithError(err).WithFields(logrus.Fields{"route": prefix, "path": r.URL.Path}).Error("upstream request failed")
		c, ok := w.(gin.ResponseWriter)
		if ok && c.Written() {
			panic(http.ErrAbortHandler)
		}
		writeRaw(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
