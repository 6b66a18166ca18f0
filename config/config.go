package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database     DatabaseConfigs     `toml:"database"`
	ApiServer    ServerConfigs       `toml:"api_server"`
	Auth         AuthConfigs         `toml:"auth"`
	Redis        RedisConfigs        `toml:"redis"`
	Kafka        KafkaConfigs        `toml:"kafka"`
	Payment      PaymentConfigs      `toml:"payment"`
	Activity     ActivityConfigs     `toml:"activity"`
	PrizeDraw    PrizeDrawConfigs    `toml:"prize_draw"`
	Notification NotificationConfigs `toml:"notification"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	AllowCORS []string `toml:"allow_cors"`
}

type AuthConfigs struct {
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Secret     string        `toml:"secret"`
	Expiration time.Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr  string `toml:"addr"`
	Topic string `toml:"topic"`
}

// PaymentConfigs points at the payment-eligibility collaborator. Every call
// is bounded by Timeout and fails closed.
type PaymentConfigs struct {
	RPCEndpoint string        `toml:"rpc_endpoint"`
	RPCName     string        `toml:"rpc_name"`
	Timeout     time.Duration `toml:"timeout"`
}

// ActivityConfigs carries the slot-cap rules per activity kind. The cap of a
// kind is min(MaxCap, BaseCap + completed/IncreaseEvery).
type ActivityConfigs struct {
	Challenge CapConfigs `toml:"challenge"`
	Quest     CapConfigs `toml:"quest"`
}

type CapConfigs struct {
	BaseCap       int `toml:"base_cap"`
	IncreaseEvery int `toml:"increase_every"`
	MaxCap        int `toml:"max_cap"`
}

type PrizeDrawConfigs struct {
	EntriesPerHero   int `toml:"entries_per_hero"`
	EntriesPerLegend int `toml:"entries_per_legend"`
	BaseWeight       int `toml:"base_weight"`
}

type NotificationConfigs struct {
	Topic string `toml:"topic"`
}

// Load builds the configurations from environment variables; a TOML file
// given by the CONFIG_FILE variable overrides the defaults field by field.
func Load() Configs {
	cfg := Configs{
		Env: getEnv("ENV", "local"),
		Database: DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "healthrocket"),
			User:     getEnv("MYSQL_USER", "root"),
			Password: getEnv("MYSQL_PASSWORD", "mysql"),
		},
		ApiServer: ServerConfigs{
			Host:      getEnv("API_HOST", "localhost"),
			Port:      getEnv("API_PORT", "8080"),
			AllowCORS: []string{getEnv("API_ALLOW_CORS", "http://localhost:3000")},
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Secret:     getEnv("AUTH_TOKEN_SECRET", "token_secret"),
				Expiration: getDuration("AUTH_TOKEN_EXPIRATION", time.Hour),
			},
		},
		Redis: RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfigs{
			Addr:  getEnv("KAFKA_ADDR", "localhost:9092"),
			Topic: getEnv("KAFKA_TOPIC", "notifications"),
		},
		Payment: PaymentConfigs{
			RPCEndpoint: getEnv("PAYMENT_RPC_ENDPOINT", "http://localhost:8100"),
			RPCName:     getEnv("PAYMENT_RPC_NAME", "payment"),
			Timeout:     getDuration("PAYMENT_TIMEOUT", 5*time.Second),
		},
		Activity: ActivityConfigs{
			Challenge: CapConfigs{BaseCap: 2, IncreaseEvery: 3, MaxCap: 5},
			Quest:     CapConfigs{BaseCap: 1, IncreaseEvery: 2, MaxCap: 3},
		},
		PrizeDraw: PrizeDrawConfigs{
			EntriesPerHero:   1,
			EntriesPerLegend: 2,
			BaseWeight:       1000,
		},
		Notification: NotificationConfigs{
			Topic: getEnv("NOTIFICATION_TOPIC", "notifications"),
		},
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if _, err := toml.DecodeFile(file, &cfg); err != nil {
			panic(err)
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	if d, err := time.ParseDuration(v); err == nil {
		return d
	}

	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}

	return def
}
