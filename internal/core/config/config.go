package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int // 0 = 不设置（上游请求本身无超时）
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// Upstream 远端 users API
type Upstream struct {
	BaseURL    string `mapstructure:"baseURL"`
	TimeoutSec int    `mapstructure:"timeoutSec"` // 0 = 无超时
}

// Session 浏览器会话 cookie（仅防篡改，不做用户鉴权）
type Session struct {
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
	Cookie  string `mapstructure:"cookie"`
	TTLMin  int    `mapstructure:"ttlMin"`
	IdleMin int    `mapstructure:"idleMin"`
}

type Limits struct {
	RPS         float64 `mapstructure:"rps"`
	Burst       int     `mapstructure:"burst"`
	PerIPRPS    float64 `mapstructure:"perIPRPS"`
	PerIPBurst  int     `mapstructure:"perIPBurst"`
	Concurrency int64   `mapstructure:"concurrency"`
	MaxBodyMB   int64   `mapstructure:"maxBodyMB"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	Upstream Upstream `mapstructure:"upstream"`
	Session  Session  `mapstructure:"session"`
	Limits   Limits   `mapstructure:"limits"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-console")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 30)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.filename", "logs/console.log")
	v.SetDefault("log.rotate.maxSizeMB", 100)
	v.SetDefault("log.rotate.maxBackups", 5)
	v.SetDefault("log.rotate.maxAgeDays", 14)

	v.SetDefault("upstream.baseURL", "https://jsonplaceholder.typicode.com")
	v.SetDefault("upstream.timeoutSec", 0)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.issuer", "user-console")
	v.SetDefault("session.cookie", "console_sid")
	v.SetDefault("session.ttlMin", 12*60)
	v.SetDefault("session.idleMin", 60)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.perIPRPS", 20)
	v.SetDefault("limits.perIPBurst", 40)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxBodyMB", 1)
}

// Read 读取配置；未显式指定且默认文件不存在时只用默认值 + 环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Session.Secret == "" {
		return nil, errors.New("session.secret is required (APP_SESSION_SECRET)")
	}
	return &c, nil
}

// Load 启动期使用，失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}
