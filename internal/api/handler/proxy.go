package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ibyanalytics/nfl-gateway/internal/api/respond"
)

// proxyAllowedHosts are the only upstreams the passthrough proxy will reach.
// Anything else is rejected before a request is made.
var proxyAllowedHosts = map[string]bool{
	"site.api.espn.com":                  true,
	"api.the-odds-api.com":               true,
	"v1.american-football.api-sports.io": true,
	"api.sleeper.app":                    true,
	"github.com":                         true,
	"objects.githubusercontent.com":      true,
}

// Redirects re-check the allowlist: github.com redirects release assets to
// objects.githubusercontent.com (allowed), but nothing stops an upstream
// from redirecting anywhere else.
var proxyClient = &http.Client{
	Timeout: 10 * time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if !proxyAllowedHosts[req.URL.Hostname()] {
			return fmt.Errorf("redirect to disallowed host %q", req.URL.Hostname())
		}
		return nil
	},
}

// Proxy forwards a GET to an allowlisted upstream, injecting provider auth
// headers server-side so browser clients never see API keys.
// @Summary CORS passthrough proxy
// @Description Forwards a GET to an allowlisted upstream host, adding provider auth headers server-side.
// @Tags proxy
// @Param url query string true "Upstream URL"
// @Success 200
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /proxy [get]
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_URL", "Missing url parameter")
		return
	}

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_URL", "Malformed upstream URL")
		return
	}
	if !proxyAllowedHosts[parsed.Hostname()] {
		respond.WriteError(w, http.StatusBadRequest, "HOST_NOT_ALLOWED",
			"Upstream host not allowed: "+parsed.Hostname())
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_URL", "Malformed upstream URL")
		return
	}
	req.Header.Set("User-Agent", "IBY-NFL-Analytics/2.0")

	// Provider auth headers stay server-side.
	if parsed.Hostname() == "v1.american-football.api-sports.io" && h.cfg.APISportsKey != "" {
		req.Header.Set("x-rapidapi-key", h.cfg.APISportsKey)
		req.Header.Set("x-rapidapi-host", "v1.american-football.api-sports.io")
	}

	resp, err := proxyClient.Do(req)
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "Upstream request failed")
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Warn("proxy response copy interrupted", "error", err)
	}
}
