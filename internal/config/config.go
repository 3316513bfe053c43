package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/StewbeStew/CrowdCastr/pkg/config"
	"github.com/StewbeStew/CrowdCastr/pkg/storage"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Web       WebConfig
	Storage   StorageConfig
	Sponsor   SponsorConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	PublicURL string `mapstructure:"public_url"`
	TLS       TLSConfig
}

// TLSConfig enables the HTTPS listener. Phone cameras are only available
// to pages served over a secure context, so venues without a reverse proxy
// point this at a self-signed pair.
type TLSConfig struct {
	Port     int
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// Enabled reports whether the HTTPS listener should start.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type WebConfig struct {
	Root string
}

type StorageConfig struct {
	Driver string // "local" or "s3"
	Local  storage.LocalConfig
	S3     storage.S3Config
}

type SponsorConfig struct {
	MaxWidth    int           `mapstructure:"max_width"`
	JpegQuality int           `mapstructure:"jpeg_quality"`
	URLTTL      time.Duration `mapstructure:"url_ttl"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.tls.port", 8443)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	// Camera frames travel as base64 data URIs, which need headroom.
	v.SetDefault("websocket.max_message_size", 4194304)
	v.SetDefault("web.root", "./web")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./data")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "crowdcastr")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.use_path_style", true)
	v.SetDefault("storage.s3.public_url", "")
	v.SetDefault("sponsor.max_width", 1024)
	v.SetDefault("sponsor.jpeg_quality", 85)
	v.SetDefault("sponsor.url_ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.public_url", "PUBLIC_URL")
	v.BindEnv("server.tls.cert_file", "TLS_CERT_FILE")
	v.BindEnv("server.tls.key_file", "TLS_KEY_FILE")
	v.BindEnv("web.root", "WEB_ROOT")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.local.base_path", "STORAGE_LOCAL_PATH")
	v.BindEnv("storage.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.s3.bucket", "S3_BUCKET")
	v.BindEnv("storage.s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("storage.s3.public_url", "S3_PUBLIC_URL")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Sponsor.URLTTL = parseDuration(v, "sponsor.url_ttl", 24*time.Hour)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
