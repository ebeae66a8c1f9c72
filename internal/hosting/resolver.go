package hosting

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"path"
	"time"

	"golang.org/x/time/rate"

	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

// ObjectStore is the blob/static-hosting substrate images are written
// to. Provision is called once per deployment when no hosting config is
// cached yet.
type ObjectStore interface {
	Provision(ctx context.Context, subdomain string) error
	Write(ctx context.Context, objectPath, contentType string, data []byte) error
}

// Resolver ensures image references are durably hosted. A nil object
// store degrades to "no durable hosting available": every non-hosted
// reference resolves to failure rather than an error surfacing to the
// caller.
type Resolver struct {
	store        kv.Store
	objects      ObjectStore
	domainSuffix string
	rootDir      string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

func NewResolver(store kv.Store, objects ObjectStore, domainSuffix, rootDir string) *Resolver {
	if domainSuffix == "" {
		domainSuffix = DefaultDomainSuffix
	}
	if rootDir == "" {
		rootDir = DefaultRootDir
	}
	return &Resolver{
		store:        store,
		objects:      objects,
		domainSuffix: domainSuffix,
		rootDir:      rootDir,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(5), 10),
	}
}

// IsDurable reports whether url already serves bytes from hosting.
func (r *Resolver) IsDurable(url string) bool {
	return IsHostedURL(r.domainSuffix, url)
}

// EnsureDurable migrates an image reference to a durable hosted URL.
// Already-hosted URLs are returned unchanged. The second result is false
// when the image could not be hosted; callers decide whether that skips
// a field or aborts the operation.
func (r *Resolver) EnsureDurable(ctx context.Context, image, projectID, label string) (string, bool) {
	if image == "" || projectID == "" {
		return "", false
	}
	if r.IsDurable(image) {
		return image, true
	}

	cfg := r.ensureConfig(ctx)
	if cfg == nil {
		return "", false
	}

	fetched, err := r.fetchImage(ctx, image)
	if err != nil {
		log.Printf("hosting: failed to resolve %s image for project %s: %v", label, projectID, err)
		return "", false
	}

	data, contentType := fetched.data, fetched.contentType
	ext := ImageExtension(contentType, image)
	if label == "rendered" {
		// Renders are normalized to PNG when the payload is decodable.
		if converted, ok := transcodePNG(data); ok {
			data = converted
			contentType = "image/png"
			ext = "png"
		}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	filePath := path.Join(r.rootDir, "projects", projectID, label+"."+ext)
	if err := r.objects.Write(ctx, filePath, contentType, data); err != nil {
		log.Printf("hosting: failed to write %s image for project %s: %v", label, projectID, err)
		return "", false
	}

	return cfg.HostedURL(r.domainSuffix, filePath), true
}

// Reset drops the cached hosting configuration so the next resolution
// provisions a fresh host.
func (r *Resolver) Reset(ctx context.Context) error {
	return r.store.Delete(ctx, ConfigKey)
}

// ensureConfig returns the cached hosting config, provisioning one on
// first use. Provisioning failures degrade to nil, never an error.
func (r *Resolver) ensureConfig(ctx context.Context) *Config {
	if data, err := r.store.Get(ctx, ConfigKey); err == nil {
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err == nil && cfg.Subdomain != "" && cfg.RootDir != "" {
			return &cfg
		}
	}

	if r.objects == nil {
		return nil
	}

	slug := NewSlug()
	if err := r.objects.Provision(ctx, slug); err != nil {
		log.Printf("hosting: provisioning failed: %v", err)
		return nil
	}

	cfg := Config{Subdomain: slug, RootDir: r.rootDir}
	if data, err := json.Marshal(cfg); err == nil {
		if err := r.store.Set(ctx, ConfigKey, data); err != nil {
			// Best-effort cache write; the config is still usable.
			log.Printf("hosting: failed to cache config: %v", err)
		}
	}
	return &cfg
}
