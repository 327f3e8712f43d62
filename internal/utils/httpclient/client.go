package httpclient

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RileyJaeke/microcenter-scraper/internal/config"

	"github.com/sirupsen/logrus"
)

// NewHTTPClient builds the shared scraper client: browser user agent,
// timeout, optional proxy, transparent gzip.
func NewHTTPClient(cfg *config.ScrapeConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  false,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("invalid proxy address, continuing without proxy")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("scraper client using proxy")
		}
	}

	return &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &browserTransport{
			transport: transport,
			userAgent: cfg.UserAgent,
			logger:    logger,
		},
	}
}

// browserTransport injects the user agent on every request and unwraps
// gzip bodies so callers always read plain HTML.
type browserTransport struct {
	transport http.RoundTripper
	userAgent string
	logger    *logrus.Logger
}

func (b *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}
	req.Header.Add("Accept-Encoding", "gzip")

	resp, err := b.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			b.logger.WithError(err).Warn("gzip decode failed, returning raw body")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{Reader: gzReader, closer: resp.Body}
		resp.Header.Del("Content-Encoding")
	}

	return resp, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

// Close closes the gzip reader first, then the underlying body.
func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.closer.Close()
		return err
	}
	return g.closer.Close()
}
