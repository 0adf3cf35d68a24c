package app

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/httpclient"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/idempotency"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/mail"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/storage"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

const (
	idempotencyDriverRedis = "redis"
	pubsubScope            = "https://www.googleapis.com/auth/pubsub"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		KioskID:          a.config.GetString("app.kiosk_id"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	translator, err := i18n.New(a.config.GetString("app.default_lang"))
	if err != nil {
		slog.Error("failed to init message catalog", "error", err)
		os.Exit(1)
	}
	a.translator = translator
}

// initIdempotency uses the in-process tracker unless a redis URL is set, in
// which case confirm locks are shared across kiosk restarts.
func (a *App) initIdempotency() {
	if a.config.GetString("idempotency.driver") != idempotencyDriverRedis {
		a.idemp = idempotency.NewMemory(a.clock)
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("idempotency.redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initMail() {
	a.mail = mail.New(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
}

// googleOptions builds client options for a Google API from the keys under
// prefix: credentials_file, credentials_json (base64), endpoint, without_auth.
func (a *App) googleOptions(prefix string, scopes ...string) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if a.config.GetBool(prefix + ".without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			return nil, err
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, scopes...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary(prefix + ".credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, scopes...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".user_agent")); v != "" {
		opts = append(opts, option.WithUserAgent(v))
	}

	return opts, nil
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	var gcsOptions []option.ClientOption
	if driver == storage.DriverGCS {
		opts, err := a.googleOptions("storage.gcs", gcs.ScopeFullControl)
		if err != nil {
			slog.Error("failed to build gcs client options", "error", err)
			os.Exit(1)
		}
		gcsOptions = opts
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Bucket:       strings.TrimSpace(a.config.GetString("storage.s3.bucket")),
			Prefix:       strings.TrimSpace(a.config.GetString("storage.s3.prefix")),
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			Bucket:        strings.TrimSpace(a.config.GetString("storage.gcs.bucket")),
			Prefix:        strings.TrimSpace(a.config.GetString("storage.gcs.prefix")),
			ClientOptions: gcsOptions,
		},
		MinIO: storage.MinIOOptions{
			Bucket:       strings.TrimSpace(a.config.GetString("storage.minio.bucket")),
			Prefix:       strings.TrimSpace(a.config.GetString("storage.minio.prefix")),
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
			CreateBucket: a.config.GetBool("storage.minio.create_bucket"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.storage = stg
}

func (a *App) initMessaging() {
	driver := strings.TrimSpace(a.config.GetString("messaging.driver"))

	var pubsubOptions []option.ClientOption
	if driver == messaging.DriverGooglePubSub {
		opts, err := a.googleOptions("messaging.pubsub", pubsubScope)
		if err != nil {
			slog.Error("failed to build pubsub client options", "error", err)
			os.Exit(1)
		}
		pubsubOptions = opts
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr: a.config.GetString("messaging.nsq.producer_addr"),
			Config: func() *nsq.Config {
				cfg := nsq.NewConfig()
				if v := a.config.GetSecond("messaging.nsq.dial_timeout_seconds"); v > 0 {
					cfg.DialTimeout = v
				}
				if v := a.config.GetSecond("messaging.nsq.write_timeout_seconds"); v > 0 {
					cfg.WriteTimeout = v
				}
				return cfg
			}(),
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			BatchTimeout: a.config.GetMillisecond("messaging.kafka.batch_timeout_ms"),
			RequireAll:   a.config.GetBool("messaging.kafka.require_all"),
		},
		NATS: messaging.NATSConfig{
			URL:  a.config.GetString("messaging.nats.url"),
			Name: a.config.GetString("messaging.nats.name"),
			Options: []nats.Option{
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOptions,
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Translator: a.translator,
	})
	a.router.Raw(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		router.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}))

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initBackend() {
	hc, err := httpclient.New(httpclient.Config{
		Name:            "rationapi",
		Timeout:         a.config.GetSecond("backend.http.timeout_seconds"),
		MaxRetries:      uint64(max(a.config.GetInt("backend.http.max_retries"), 0)),
		RetryWaitMin:    a.config.GetMillisecond("backend.http.retry_wait_min_ms"),
		RetryWaitMax:    a.config.GetMillisecond("backend.http.retry_wait_max_ms"),
		MaxConnsPerHost: a.config.GetInt("backend.http.max_conns_per_host"),
		Breaker: httpclient.BreakerConfig{
			MaxRequests:  uint32(max(a.config.GetInt("backend.http.breaker.max_requests"), 0)),
			Interval:     a.config.GetSecond("backend.http.breaker.interval_seconds"),
			Timeout:      a.config.GetSecond("backend.http.breaker.timeout_seconds"),
			FailureRatio: a.config.GetFloat64("backend.http.breaker.failure_ratio"),
			MinRequests:  uint32(max(a.config.GetInt("backend.http.breaker.min_requests"), 0)),
		},
	}, a.ins)
	if err != nil {
		slog.Error("failed to init backend http client", "error", err)
		os.Exit(1)
	}
	a.httpClient = hc

	baseURL := strings.TrimSpace(a.config.GetString("backend.base_url"))
	if baseURL == "" && a.config.GetBool("modules.sandbox.enabled") {
		baseURL = "http://" + loopback(a.httpServer.Addr) + sandbox.BasePath
		slog.Warn("backend base url points at the sandbox", "base_url", baseURL)
	}

	a.sessions = session.NewStore()

	backend, err := rationapi.New(baseURL, a.httpClient, a.sessions, a.ins)
	if err != nil {
		slog.Error("failed to init backend client", "error", err)
		os.Exit(1)
	}
	a.backend = backend
}

// loopback turns a listen address like ":8080" into one the kiosk can dial.
func loopback(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}

				return a.cacheConn.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
