package hosting

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ConfigKey is the key-value slot holding the cached hosting config.
	ConfigKey = "roomify_hosting_config"

	// DefaultRootDir is the deployment-scoped directory convention under
	// which hosted images are written.
	DefaultRootDir = "roomify/hosting"

	// DefaultDomainSuffix identifies URLs already served from hosting.
	DefaultDomainSuffix = ".roomify.site"
)

// Config is the lazily provisioned hosting configuration: the public
// subdomain plus the root directory objects are written under. Cached in
// the key-value store so every call reuses the same public host.
type Config struct {
	Subdomain string `json:"subdomain"`
	RootDir   string `json:"root_dir"`
}

// NewSlug generates a fresh hosting subdomain slug.
func NewSlug() string {
	return "roomify-" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + uuid.NewString()[:6]
}

// IsHostedURL reports whether value already points at the deployment's
// hosting domain, i.e. is durable and needs no migration.
func IsHostedURL(domainSuffix, value string) bool {
	return domainSuffix != "" && strings.Contains(value, domainSuffix)
}

// HostedURL derives the public URL for a file written under the hosting
// root. filePath may or may not carry the root dir prefix.
func (c Config) HostedURL(domainSuffix, filePath string) string {
	if c.Subdomain == "" {
		return ""
	}
	host := c.Subdomain
	if !strings.HasSuffix(host, domainSuffix) {
		host += domainSuffix
	}
	root := strings.Trim(c.RootDir, "/")
	file := strings.Trim(filePath, "/")
	if root != "" && strings.HasPrefix(file, root+"/") {
		file = strings.TrimPrefix(file, root+"/")
	}
	return "https://" + host + "/" + file
}

var dataURLExt = regexp.MustCompile(`(?i)^data:image/([a-z0-9+.-]+);`)

// ImageExtension infers a file extension with a fallback chain:
// content-type, then path suffix, then inline-data scheme, then "png".
func ImageExtension(contentType, src string) string {
	switch ct := strings.ToLower(contentType); {
	case strings.Contains(ct, "image/png"):
		return "png"
	case strings.Contains(ct, "image/jpeg"), strings.Contains(ct, "image/jpg"):
		return "jpg"
	case strings.Contains(ct, "image/webp"):
		return "webp"
	case strings.Contains(ct, "image/gif"):
		return "gif"
	case strings.Contains(ct, "image/svg"):
		return "svg"
	}

	if src != "" && !strings.HasPrefix(src, "http") && !strings.HasPrefix(src, "data:") {
		if i := strings.LastIndex(src, "."); i >= 0 && i < len(src)-1 {
			return strings.ToLower(src[i+1:])
		}
	}

	if m := dataURLExt.FindStringSubmatch(src); m != nil {
		ext := strings.ToLower(m[1])
		if ext == "jpeg" {
			return "jpg"
		}
		return ext
	}

	if parsed, err := url.Parse(src); err == nil {
		if i := strings.LastIndex(parsed.Path, "."); i >= 0 && i < len(parsed.Path)-1 {
			return strings.ToLower(parsed.Path[i+1:])
		}
	}
	return "png"
}
