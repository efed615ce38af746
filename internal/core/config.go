// Package core 管线编排和应用配置
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Fetch    models.FetchConfig    `mapstructure:"fetch"`
	Download models.PipelineConfig `mapstructure:"download"`
	Logging  LoggingConfig         `mapstructure:"logging"`
	Output   OutputConfig          `mapstructure:"output"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir   string `mapstructure:"base_dir"`
	CacheFile string `mapstructure:"cache_file"`
}

// LoadConfig 加载配置文件
// 未找到配置文件时使用默认值,不报错
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mediacrawl"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在,使用默认值
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 抓取配置默认值
	v.SetDefault("fetch.limit", 100)
	v.SetDefault("fetch.max_workers", 10)
	v.SetDefault("fetch.timeout", 30)
	v.SetDefault("fetch.same_host", true)

	// 下载配置默认值
	v.SetDefault("download.max_workers", 10)
	v.SetDefault("download.progress_every", 10)
	v.SetDefault("download.image_timeout", 30)
	v.SetDefault("download.video_timeout", 60)
	v.SetDefault("download.chunk_size", 8192)
	v.SetDefault("download.image_path_pattern", "/content/images/")
	v.SetDefault("download.video_path_pattern", "/content/media/")

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 输出配置默认值
	v.SetDefault("output.base_dir", "images")
	v.SetDefault("output.cache_file", "./crawl_cache.json")
}

// MergeCLIFlags 合并命令行参数到配置
// 命令行参数优先于配置文件
func (c *Config) MergeCLIFlags(limit int, threads int, outputDir string, cacheFile string) {
	if limit > 0 {
		c.Fetch.Limit = limit
	}
	if threads > 0 {
		c.Download.MaxWorkers = threads
		c.Fetch.MaxWorkers = threads
	}
	if outputDir != "" {
		c.Output.BaseDir = outputDir
	}
	if cacheFile != "" {
		c.Output.CacheFile = cacheFile
	}
}
