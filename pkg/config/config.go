package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ark      ArkConfig
	Index    IndexConfig
	Export   ExportConfig
	Advisor  AdvisorConfig
	Tracing  TracingConfig
	RabbitMQ RabbitMQConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig points at the read-only organization store consumed
// by the offline export step.
type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ArkConfig struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	BaseURL        string
	Region         string
	MaxTokens      int
	Temperature    float64
}

type IndexConfig struct {
	IndexPath    string
	MetadataPath string
}

type ExportConfig struct {
	Domain     string
	ChunkWidth int
}

type AdvisorConfig struct {
	TopK               int
	NormalizeQuery     bool
	IncludeEmptyGroups bool
	StaticImagePath    string
	EmbedTimeout       time.Duration
	GenerateTimeout    time.Duration
	CacheTTL           time.Duration
	Groups             []string
	Greetings          map[string]string
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

var cfg *Config

func Load() (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/startup-advisor/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ADVISOR")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables or defaults")
	}

	cfg = &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", viper.GetString("server.port")),
			Mode:         getEnvOrDefault("SERVER_MODE", viper.GetString("server.mode")),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", viper.GetString("database.host")),
			Port:         getEnvOrDefault("DB_PORT", viper.GetString("database.port")),
			Username:     getEnvOrDefault("DB_USERNAME", viper.GetString("database.username")),
			Password:     getEnvOrDefault("DB_PASSWORD", viper.GetString("database.password")),
			Database:     getEnvOrDefault("DB_NAME", viper.GetString("database.database")),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxLifetime:  viper.GetDuration("database.max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", viper.GetString("redis.host")),
			Port:     getEnvOrDefault("REDIS_PORT", viper.GetString("redis.port")),
			Password: getEnvOrDefault("REDIS_PASSWORD", viper.GetString("redis.password")),
			DB:       getEnvAsIntOrDefault("REDIS_DB", viper.GetInt("redis.db")),
		},
		Ark: ArkConfig{
			APIKey:         getEnvOrDefault("ARK_API_KEY", viper.GetString("ark.api_key")),
			EmbeddingModel: getEnvOrDefault("ARK_EMBEDDING_MODEL", viper.GetString("ark.embedding_model")),
			ChatModel:      getEnvOrDefault("ARK_CHAT_MODEL", viper.GetString("ark.chat_model")),
			BaseURL:        getEnvOrDefault("ARK_BASE_URL", viper.GetString("ark.base_url")),
			Region:         getEnvOrDefault("ARK_REGION", viper.GetString("ark.region")),
			MaxTokens:      viper.GetInt("ark.max_tokens"),
			Temperature:    viper.GetFloat64("ark.temperature"),
		},
		Index: IndexConfig{
			IndexPath:    getEnvOrDefault("INDEX_PATH", viper.GetString("index.index_path")),
			MetadataPath: getEnvOrDefault("METADATA_PATH", viper.GetString("index.metadata_path")),
		},
		Export: ExportConfig{
			Domain:     getEnvOrDefault("EXPORT_DOMAIN", viper.GetString("export.domain")),
			ChunkWidth: getEnvAsIntOrDefault("EXPORT_CHUNK_WIDTH", viper.GetInt("export.chunk_width")),
		},
		Advisor: AdvisorConfig{
			TopK:               getEnvAsIntOrDefault("ADVISOR_TOP_K", viper.GetInt("advisor.top_k")),
			NormalizeQuery:     getEnvAsBoolOrDefault("ADVISOR_NORMALIZE_QUERY", viper.GetBool("advisor.normalize_query")),
			IncludeEmptyGroups: getEnvAsBoolOrDefault("ADVISOR_INCLUDE_EMPTY_GROUPS", viper.GetBool("advisor.include_empty_groups")),
			StaticImagePath:    viper.GetString("advisor.static_image_path"),
			EmbedTimeout:       viper.GetDuration("advisor.embed_timeout"),
			GenerateTimeout:    viper.GetDuration("advisor.generate_timeout"),
			CacheTTL:           viper.GetDuration("advisor.cache_ttl"),
			Groups:             viper.GetStringSlice("advisor.groups"),
			Greetings:          viper.GetStringMapString("advisor.greetings"),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBoolOrDefault("TRACING_ENABLED", viper.GetBool("tracing.enabled")),
			OTLPEndpoint: getEnvOrDefault("OTLP_ENDPOINT", viper.GetString("tracing.otlp_endpoint")),
			ServiceName:  getEnvOrDefault("SERVICE_NAME", viper.GetString("tracing.service_name")),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnvOrDefault("RABBITMQ_URL", viper.GetString("rabbitmq.url")),
			Queue: getEnvOrDefault("RABBITMQ_QUEUE", viper.GetString("rabbitmq.queue")),
		},
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "3306")
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "startuphub")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_lifetime", "5m")

	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("ark.api_key", "")
	viper.SetDefault("ark.embedding_model", "doubao-embedding-text-240715")
	viper.SetDefault("ark.chat_model", "doubao-seed-1-6-251015")
	viper.SetDefault("ark.base_url", "https://ark.cn-beijing.volces.com/api/v3")
	viper.SetDefault("ark.region", "cn-beijing")
	viper.SetDefault("ark.max_tokens", 1024)
	viper.SetDefault("ark.temperature", 0.2)

	viper.SetDefault("index.index_path", "data/company_chunks.index")
	viper.SetDefault("index.metadata_path", "data/company_chunks_metadata.json")

	viper.SetDefault("export.domain", "Culture")
	viper.SetDefault("export.chunk_width", 500)

	viper.SetDefault("advisor.top_k", 10)
	viper.SetDefault("advisor.normalize_query", true)
	viper.SetDefault("advisor.include_empty_groups", false)
	viper.SetDefault("advisor.static_image_path", "/static/images/")
	viper.SetDefault("advisor.embed_timeout", "15s")
	viper.SetDefault("advisor.generate_timeout", "60s")
	viper.SetDefault("advisor.cache_ttl", "60s")
	viper.SetDefault("advisor.groups", []string{
		"Education", "Funding", "Mentoring", "Events", "Workspaces",
		"Media", "Talent", "Incubation", "Research",
	})
	viper.SetDefault("advisor.greetings", map[string]string{
		"hi":        "Hello! Tell me about your startup idea and I will suggest organizations that can help.",
		"hello":     "Hello! Tell me about your startup idea and I will suggest organizations that can help.",
		"hey":       "Hey! Describe your startup idea and I will point you to relevant organizations.",
		"thanks":    "You're welcome! Feel free to ask about another idea.",
		"thank you": "You're welcome! Feel free to ask about another idea.",
		"bye":       "Goodbye! Come back any time.",
		"goodbye":   "Goodbye! Come back any time.",
	})

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	viper.SetDefault("tracing.service_name", "startup-advisor")

	viper.SetDefault("rabbitmq.url", "")
	viper.SetDefault("rabbitmq.queue", "index_rebuilt")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func Get() *Config {
	if cfg == nil {
		config, err := Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		cfg = config
	}
	return cfg
}
