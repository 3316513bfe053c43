package handler

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/singleflight"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
	"github.com/StewbeStew/CrowdCastr/internal/registry"
	"github.com/StewbeStew/CrowdCastr/internal/settings"
	pkglog "github.com/StewbeStew/CrowdCastr/pkg/log"
	"github.com/StewbeStew/CrowdCastr/pkg/response"
)

// QR size bounds. The operator prints these on posters, so oversized
// requests are clamped instead of rejected.
const (
	qrDefaultSize = 256
	qrMinSize     = 64
	qrMaxSize     = 1024
)

// HTTPHandler serves the three web surfaces plus the small REST API.
type HTTPHandler struct {
	settings  *settings.Store
	registry  *registry.Registry
	live      *registry.Live
	webRoot   string
	publicURL string

	qrGroup singleflight.Group
	qrMu    sync.RWMutex
	qrCache map[int][]byte
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(st *settings.Store, reg *registry.Registry, live *registry.Live, webRoot, publicURL string) *HTTPHandler {
	return &HTTPHandler{
		settings:  st,
		registry:  reg,
		live:      live,
		webRoot:   webRoot,
		publicURL: publicURL,
		qrCache:   make(map[int][]byte),
	}
}

// RegisterRoutes registers all HTTP routes. When sponsorDir is non-empty,
// sponsor assets are served straight from the local storage directory;
// with an S3 backend the asset URLs point at the bucket instead.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine, sponsorDir string) {
	r.GET("/", h.servePage("index.html"))
	r.GET("/mobile", h.servePage("mobile.html"))
	r.GET("/control-room", h.servePage("control-room.html"))
	r.GET("/arena-display", h.servePage("arena-display.html"))
	r.Static("/static", filepath.Join(h.webRoot, "static"))

	if sponsorDir != "" {
		r.Static("/sponsors", sponsorDir)
	}

	api := r.Group("/api")
	{
		api.GET("/qr-code", h.GetQRCode)
		api.GET("/settings", h.GetSettings)
		api.GET("/devices", h.GetDevices)
	}

	r.GET("/health", h.Health)
}

func (h *HTTPHandler) servePage(name string) gin.HandlerFunc {
	page := filepath.Join(h.webRoot, name)
	return func(c *gin.Context) {
		c.File(page)
	}
}

// GetQRCode renders the mobile join URL as a PNG. Spectators scan it off
// the big screen or a poster, so the same few sizes get requested over and
// over; each rendered size is generated once and cached.
func (h *HTTPHandler) GetQRCode(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	size := qrDefaultSize
	if raw := c.Query("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			size = parsed
		}
	}
	if size < qrMinSize {
		size = qrMinSize
	}
	if size > qrMaxSize {
		size = qrMaxSize
	}

	h.qrMu.RLock()
	png, ok := h.qrCache[size]
	h.qrMu.RUnlock()

	if !ok {
		result, err, _ := h.qrGroup.Do(strconv.Itoa(size), func() (interface{}, error) {
			png, err := qrcode.Encode(h.mobileURL(), qrcode.Medium, size)
			if err != nil {
				return nil, err
			}
			h.qrMu.Lock()
			h.qrCache[size] = png
			h.qrMu.Unlock()
			return png, nil
		})
		if err != nil {
			l.Error().Err(err).Int("size", size).Msg("qr code generation failed")
			response.InternalError(c, "Failed to generate QR code")
			return
		}
		png = result.([]byte)
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(200, "image/png", png)
}

// GetSettings returns the current settings snapshot, the same payload a
// WebSocket client receives on connect.
func (h *HTTPHandler) GetSettings(c *gin.Context) {
	response.Success(c, h.settings.SnapshotAll())
}

// GetDevices returns the connected mobile devices, mirroring the
// control-room tile list. Previews are omitted to keep the payload small.
func (h *HTTPHandler) GetDevices(c *gin.Context) {
	sessions := h.registry.ListByRole(domain.RoleMobile)
	devices := make([]gin.H, 0, len(sessions))
	for _, sess := range sessions {
		devices = append(devices, gin.H{
			"session_id":  sess.ID,
			"name":        sess.Name,
			"has_preview": sess.HasPreview(),
			"live":        h.live.IsLive(sess.ID),
		})
	}
	response.Success(c, gin.H{"devices": devices})
}

// Health is the liveness endpoint.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":   "healthy",
		"service":  "crowdcastr",
		"sessions": h.registry.Count(),
	})
}

func (h *HTTPHandler) mobileURL() string {
	return strings.TrimSuffix(h.publicURL, "/") + "/mobile"
}
