// Package sponsor stores uploaded sponsor assets and normalizes the
// raster images among them before they enter the rotation.
package sponsor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/StewbeStew/CrowdCastr/internal/config"
	pkglog "github.com/StewbeStew/CrowdCastr/pkg/log"
	"github.com/StewbeStew/CrowdCastr/pkg/storage"
)

// keyPrefix is where sponsor assets live inside the storage backend.
const keyPrefix = "sponsors/"

// contentTypes maps the extensions we accept to their MIME types. Anything
// else is stored as an opaque blob.
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// Uploader persists sponsor assets uploaded by the control room.
type Uploader struct {
	store       storage.Storage
	maxWidth    int
	jpegQuality int
	urlTTL      time.Duration
}

// NewUploader constructs an Uploader from service config.
func NewUploader(store storage.Storage, cfg config.SponsorConfig) *Uploader {
	return &Uploader{
		store:       store,
		maxWidth:    cfg.MaxWidth,
		jpegQuality: cfg.JpegQuality,
		urlTTL:      cfg.URLTTL,
	}
}

// Save decodes the uploaded file data, normalizes it when it is a raster
// image, writes it to storage under a fresh key and returns the URL the
// rotation should reference. Non-image payloads (SVG logos in particular)
// and GIFs are stored byte-for-byte; resizing a GIF would strip its
// animation.
func (u *Uploader) Save(ctx context.Context, fileName, fileData string) (string, error) {
	l := pkglog.Ctx(ctx)

	raw, mime, err := decodeFileData(fileData)
	if err != nil {
		return "", fmt.Errorf("decode file data: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty file data")
	}

	ext := normalizeExt(fileName, mime)
	body := raw
	contentType := contentTypes[ext]

	if ext != ".gif" && ext != ".svg" {
		if img, decErr := imaging.Decode(bytes.NewReader(raw)); decErr == nil {
			if u.maxWidth > 0 && img.Bounds().Dx() > u.maxWidth {
				img = imaging.Resize(img, u.maxWidth, 0, imaging.Lanczos)
			}

			var buf bytes.Buffer
			format := imaging.JPEG
			if ext == ".png" {
				format = imaging.PNG
			} else {
				ext = ".jpg"
			}
			if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(u.jpegQuality)); err != nil {
				return "", fmt.Errorf("encode image: %w", err)
			}
			body = buf.Bytes()
			contentType = contentTypes[ext]
		}
	}

	if contentType == "" {
		contentType = "application/octet-stream"
		ext = ".bin"
	}

	key := keyPrefix + uuid.New().String() + ext
	if err := u.store.Write(ctx, key, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
		return "", fmt.Errorf("store sponsor asset: %w", err)
	}

	url, err := u.store.GetURL(ctx, key, u.urlTTL)
	if err != nil {
		return "", fmt.Errorf("resolve sponsor URL: %w", err)
	}

	l.Info().Str("key", key).Str("content_type", contentType).Int("bytes", len(body)).Msg("sponsor asset stored")
	return url, nil
}

// CountExisting returns how many sponsor assets the backend already holds.
// Assets survive restarts even though the rotation list does not.
func (u *Uploader) CountExisting(ctx context.Context) (int, error) {
	files, err := u.store.List(ctx, keyPrefix)
	if err != nil {
		return 0, fmt.Errorf("list sponsor assets: %w", err)
	}
	return len(files), nil
}

// decodeFileData turns base64 payloads, with or without a data-URI prefix,
// into raw bytes. The MIME type from the prefix is returned when present.
func decodeFileData(data string) ([]byte, string, error) {
	mime := ""
	if strings.HasPrefix(data, "data:") {
		comma := strings.Index(data, ",")
		if comma < 0 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		meta := data[5:comma]
		if semi := strings.Index(meta, ";"); semi >= 0 {
			mime = meta[:semi]
		} else {
			mime = meta
		}
		data = data[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}
	return raw, mime, nil
}

// normalizeExt picks a storage extension from the uploaded file name,
// falling back to the data-URI MIME type.
func normalizeExt(fileName, mime string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := contentTypes[ext]; ok {
		return ext
	}
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}
