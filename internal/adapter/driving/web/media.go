package web

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gregjones/httpcache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const mediaPrefix = "/media/"

// mediaProxy serves API-hosted uploads under /media/ so pages never link to
// the API origin directly. The transport stack is:
//  1. httpcache (in-memory, honours the origin's cache headers and ETags)
//  2. otelhttp (client spans for upstream fetches)
type mediaProxy struct {
	origin *url.URL
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

func newMediaProxy(origin *url.URL, transport http.RoundTripper, logger *slog.Logger) *mediaProxy {
	if transport == nil {
		cache := httpcache.NewMemoryCacheTransport()
		cache.Transport = otelhttp.NewTransport(http.DefaultTransport)
		transport = cache
	}

	m := &mediaProxy{origin: origin, logger: logger}
	m.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(origin)
			pr.Out.Header.Del("Cookie")
			pr.Out.Header.Del("Authorization")
		},
		Transport: transport,
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Del("Set-Cookie")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("media proxy failed", "path", r.URL.Path, "error", err)
			http.Error(w, "media unavailable", http.StatusBadGateway)
		},
	}
	return m
}

func (m *mediaProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.proxy.ServeHTTP(w, r)
}

// rewrite maps a media reference returned by the API onto the local proxy.
// Absolute URLs on the media origin and bare relative paths become /media/
// paths; URLs on other hosts are returned unchanged.
func (m *mediaProxy) rewrite(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if u.IsAbs() {
		if m.origin == nil || !strings.EqualFold(u.Host, m.origin.Host) || !strings.HasPrefix(u.Path, mediaPrefix) {
			return raw
		}
		return u.RequestURI()
	}

	if strings.HasPrefix(u.Path, "/") {
		return u.RequestURI()
	}
	rel := strings.TrimPrefix(u.RequestURI(), "./")
	return mediaPrefix + strings.TrimPrefix(rel, strings.TrimPrefix(mediaPrefix, "/"))
}
