// Package loader fetches schema documents from disk, an fs.FS or HTTP and
// hands them to the model parser.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formfields/pkg/model"
)

// Option configures a Loader.
type Option func(*options)

type options struct {
	fs        fs.FS
	client    *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// WithFS sets the filesystem used for SourceKindFS.
func WithFS(files fs.FS) Option {
	return func(o *options) {
		o.fs = files
	}
}

// WithHTTPClient sets the client used for SourceKindURL and enables it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithHTTP enables URL sources with a default client when none is given.
func WithHTTP(enabled bool) Option {
	return func(o *options) {
		o.allowHTTP = enabled
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// Loader reads schema documents from file, fs.FS or HTTP sources.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// New constructs a Loader. URL sources stay disabled unless an HTTP client is
// supplied or WithHTTP(true) is set.
func New(opts ...Option) *Loader {
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var httpClient *http.Client
	switch {
	case cfg.client != nil:
		clone := *cfg.client
		if cfg.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = cfg.timeout
		}
		httpClient = &clone
	case cfg.allowHTTP:
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &Loader{
		fs:      cfg.fs,
		http:    httpClient,
		timeout: cfg.timeout,
	}
}

// Load returns the raw bytes of the document src points at.
func (l *Loader) Load(ctx context.Context, src Source) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location)
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location)
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location, l.timeout)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: load %s: %w", src, err)
	}
	return data, nil
}

// LoadSchema loads src and parses it as a JSON or YAML field schema.
// Malformed entries are returned as issues rather than failing the load.
func (l *Loader) LoadSchema(ctx context.Context, src Source) ([]model.FieldDefinition, []model.SchemaError, error) {
	data, err := l.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	return model.ParseSchema(data, src.Location)
}
