package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"OpenMCP-EVM/pkg/logger"
)

// EnvConfigPath 指定配置文件路径的环境变量。
const EnvConfigPath = "EVMMCP_CONFIG"

// Config 描述了 evmmcpd 在启动阶段需要加载的核心配置。
type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging logger.Config `json:"logging"`
	Chains  ChainsConfig  `json:"chains"`
}

// ServerConfig 控制资源服务的监听地址等参数。
type ServerConfig struct {
	Address string `json:"address"`
	// MetricsAddress 非空时在独立端口暴露 /metrics，否则挂在主服务上。
	MetricsAddress string `json:"metrics_address"`
}

// ChainsConfig 描述链目录的补充来源。
type ChainsConfig struct {
	// Definitions 是可选的 YAML 链定义文件，会覆盖或追加内置链。
	Definitions string `json:"definitions"`
	// EnvFiles 在启动时通过 godotenv 加载，用于提供 EVM_RPC_<CHAIN> 变量。
	EnvFiles []string `json:"env_files"`
}

// Default 返回未提供配置文件时使用的配置。
func Default(baseDir string) *Config {
	cfg := &Config{}
	cfg.applyDefaults(baseDir)
	return cfg
}

// Load 负责解析指定路径的 JSON 配置文件。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("配置文件路径为空")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开配置文件失败: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults(filepath.Dir(path))

	return &cfg, nil
}

// Resolve 按照 EVMMCP_CONFIG、fallback 的顺序查找配置文件；都不存在时返回默认配置。
func Resolve(fallback string) (*Config, error) {
	if path := strings.TrimSpace(os.Getenv(EnvConfigPath)); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(fallback); err == nil {
		return Load(fallback)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("检查配置文件失败: %w", err)
	}
	return Default("."), nil
}

// LoadEnv 加载配置中声明的 .env 文件。不存在的文件会被跳过，已存在的环境变量不会被覆盖。
func (c *Config) LoadEnv() error {
	existing := make([]string, 0, len(c.Chains.EnvFiles))
	for _, path := range c.Chains.EnvFiles {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("检查环境文件失败: %w", err)
		}
		existing = append(existing, path)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("加载环境文件失败: %w", err)
	}
	return nil
}

// applyDefaults 在用户未填写部分字段时设置合理的默认值。
func (c *Config) applyDefaults(baseDir string) {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Audit.Path != "" {
		c.Logging.Audit.Path = resolve(baseDir, c.Logging.Audit.Path)
	}

	if c.Chains.Definitions != "" {
		c.Chains.Definitions = resolve(baseDir, c.Chains.Definitions)
	}

	if len(c.Chains.EnvFiles) == 0 {
		c.Chains.EnvFiles = []string{".env"}
	}
	for i, path := range c.Chains.EnvFiles {
		c.Chains.EnvFiles[i] = resolve(baseDir, path)
	}
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
