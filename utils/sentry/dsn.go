package sentry

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidDSN is returned when a connection string cannot be used to reach a collector
var ErrInvalidDSN = errors.New("invalid sentry dsn")

// DSN is a parsed Sentry connection string such as
// https://<key>@<host>/<project>
type DSN struct {
	Scheme    string
	Host      string
	Path      string
	PublicKey string
}

// ParseDSN splits a connection string into collector host, project path and key
func ParseDSN(raw string) (*DSN, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDSN)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDSN, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidDSN, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidDSN)
	}
	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%w: missing public key", ErrInvalidDSN)
	}
	if strings.Trim(u.Path, "/") == "" {
		return nil, fmt.Errorf("%w: missing project", ErrInvalidDSN)
	}

	return &DSN{
		Scheme:    u.Scheme,
		Host:      u.Host,
		Path:      u.Path,
		PublicKey: u.User.Username(),
	}, nil
}

// StoreURL is the endpoint events are POSTed to
func (d *DSN) StoreURL() string {
	return fmt.Sprintf("%s://%s/api%s/store/", d.Scheme, d.Host, d.Path)
}

// ProjectID is the last segment of the project path
func (d *DSN) ProjectID() string {
	path := strings.TrimRight(d.Path, "/")
	return path[strings.LastIndex(path, "/")+1:]
}

// String rebuilds the connection string
func (d *DSN) String() string {
	return fmt.Sprintf("%s://%s@%s%s", d.Scheme, d.PublicKey, d.Host, d.Path)
}
