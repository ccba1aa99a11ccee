// Package config 提供配置管理
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `yaml:"app"`
	API       APIConfig       `yaml:"api"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// APIConfig API配置
type APIConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// SchedulerConfig 排班引擎配置
type SchedulerConfig struct {
	PopulationSize   int     `yaml:"population_size"`
	MaxGenerations   int     `yaml:"max_generations"`
	ElitismCount     int     `yaml:"elitism_count"`
	TournamentSize   int     `yaml:"tournament_size"`
	MutationRate     float64 `yaml:"mutation_rate"`
	TabuSize         int     `yaml:"tabu_size"`
	PlateauThreshold int     `yaml:"plateau_threshold"`
	Workers          int     `yaml:"workers"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "lunban"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7012),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		API: APIConfig{
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			PopulationSize:   getEnvInt("SCHEDULER_POPULATION_SIZE", 30),
			MaxGenerations:   getEnvInt("SCHEDULER_MAX_GENERATIONS", 100),
			ElitismCount:     getEnvInt("SCHEDULER_ELITISM_COUNT", 3),
			TournamentSize:   getEnvInt("SCHEDULER_TOURNAMENT_SIZE", 3),
			MutationRate:     getEnvFloat("SCHEDULER_MUTATION_RATE", 0.3),
			TabuSize:         getEnvInt("SCHEDULER_TABU_SIZE", 50),
			PlateauThreshold: getEnvInt("SCHEDULER_PLATEAU_THRESHOLD", 15),
			Workers:          getEnvInt("SCHEDULER_WORKERS", 4),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// LoadFile 从YAML文件加载配置，未设置的字段沿用环境变量默认值
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
