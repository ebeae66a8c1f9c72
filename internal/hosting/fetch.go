package hosting

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxImageBytes caps how much we read from a remote image URL.
const maxImageBytes = 20 << 20

type fetchedImage struct {
	data        []byte
	contentType string
}

// fetchImage resolves the raw bytes behind an image reference: inline
// data payloads are decoded directly, remote URLs are fetched over HTTP
// through the resolver's rate limiter.
func (r *Resolver) fetchImage(ctx context.Context, src string) (*fetchedImage, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return &fetchedImage{data: data, contentType: resp.Header.Get("Content-Type")}, nil
}

func decodeDataURL(src string) (*fetchedImage, error) {
	header, payload, ok := strings.Cut(src, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data url")
	}

	meta := strings.TrimPrefix(header, "data:")
	isBase64 := false
	contentType := meta
	if i := strings.Index(meta, ";"); i >= 0 {
		contentType = meta[:i]
		isBase64 = strings.Contains(meta[i:], "base64")
	}

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	} else {
		var decoded string
		decoded, err = url.QueryUnescape(payload)
		data = []byte(decoded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode data url: %w", err)
	}
	return &fetchedImage{data: data, contentType: contentType}, nil
}

// transcodePNG re-encodes image bytes as PNG. Returns the original bytes
// and false when the format cannot be decoded.
func transcodePNG(data []byte) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, false
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return data, false
	}
	return buf.Bytes(), true
}
