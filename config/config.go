package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix — префикс переменных окружения сервиса.
const Prefix = "EXPORTER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"2m" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"60s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"10s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"ENABLED"`
	ServiceName string  `default:"wc-order-export" envconfig:"SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"SAMPLE_RATIO"`
}

type Postgres struct {
	DSN      string `default:"postgres://wp:wp@postgres:5432/wordpress?sslmode=disable" envconfig:"DSN"`
	MaxConns int32  `default:"10" envconfig:"MAX_CONNS"`

	// StatementTimeout — серверный лимит на один запрос выборки (0 — без лимита).
	StatementTimeout time.Duration `default:"55s" envconfig:"STATEMENT_TIMEOUT"`
}

// Store — схема хранения заказов WooCommerce.
type Store struct {
	Backend     string `default:"auto" envconfig:"BACKEND"` // auto|hpos|legacy
	TablePrefix string `default:"wp_" envconfig:"TABLE_PREFIX"`
}

// Export — каталог файлов выгрузки и предпросмотр.
type Export struct {
	Dir             string `default:"./exports" envconfig:"DIR"`
	PreviewRows     int    `default:"10" envconfig:"PREVIEW_ROWS"`
	SweepOnShutdown bool   `default:"false" envconfig:"SWEEP_ON_SHUTDOWN"`
}

// Tokens — хранилище одноразовых токенов скачивания.
type Tokens struct {
	Driver   string        `default:"memory" envconfig:"DRIVER"` // memory|redis
	RedisURL string        `default:"redis:6379" envconfig:"REDIS_URL"`
	Capacity int           `default:"10000" envconfig:"CAPACITY"`
	TTL      time.Duration `default:"0" envconfig:"TTL"`
}

type Kafka struct {
	Enabled      bool          `default:"false" envconfig:"ENABLED"`
	Brokers      []string      `default:"kafka:9092" envconfig:"BROKERS"`
	Topic        string        `default:"orders-export-events" envconfig:"TOPIC"`
	WriteTimeout time.Duration `default:"5s" envconfig:"WRITE_TIMEOUT"`
}

// Auth — проверка права администратора (JWT).
type Auth struct {
	Disabled   bool   `default:"false" envconfig:"DISABLED"`
	JWTSecret  string `envconfig:"JWT_SECRET"`
	Capability string `default:"manage_woocommerce" envconfig:"CAPABILITY"`
}

type Logger struct {
	IsProd bool   `default:"false" envconfig:"IS_PROD"`
	Level  string `default:"" envconfig:"LEVEL"` // debug|info|warn|error; пусто — по пресету
}

type Config struct {
	HTTP     HTTP
	Tracing  Tracing
	Postgres Postgres
	Store    Store
	Export   Export
	Tokens   Tokens
	Kafka    Kafka
	Auth     Auth
	Logger   Logger
}

// Load — конфигурация из переменных окружения с префиксом EXPORTER_.
func Load() (*Config, error) {
	return LoadWithPrefix(Prefix)
}

// LoadWithPrefix — то же с произвольным префиксом (для тестов).
func LoadWithPrefix(prefix string) (*Config, error) {
	var c Config
	if err := envconfig.Process(prefix, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
