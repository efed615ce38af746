package models

import (
	"fmt"
	"time"
)

// FetchConfig 页面抓取配置
type FetchConfig struct {
	Limit      int  `json:"limit" mapstructure:"limit"`             // 最大抓取页面数 (默认:100)
	MaxWorkers int  `json:"max_workers" mapstructure:"max_workers"` // 抓取并发数 (默认:10)
	Timeout    int  `json:"timeout" mapstructure:"timeout"`         // 单页面HTTP超时(秒) (默认:30)
	SameHost   bool `json:"same_host" mapstructure:"same_host"`     // 爬取模式下是否限制同域名 (默认:true)
}

// Validate 验证抓取配置
func (c *FetchConfig) Validate() error {
	if c.Limit < 1 || c.Limit > 10000 {
		return fmt.Errorf("页面数量限制必须在1-10000之间")
	}
	if c.MaxWorkers < 1 || c.MaxWorkers > 100 {
		return fmt.Errorf("抓取并发数必须在1-100之间")
	}
	if c.Timeout < 1 || c.Timeout > 300 {
		return fmt.Errorf("抓取超时必须在1-300秒之间")
	}
	return nil
}

// PipelineConfig 媒体提取和下载管线配置
// 所有原先的模块级常量都收敛到这个结构中,在管线构造时显式传入
type PipelineConfig struct {
	MaxWorkers    int `json:"max_workers" mapstructure:"max_workers"`       // 下载并发数 (默认:10)
	ProgressEvery int `json:"progress_every" mapstructure:"progress_every"` // 进度汇报间隔(每N个完成目标) (默认:10)
	ImageTimeout  int `json:"image_timeout" mapstructure:"image_timeout"`   // 图片下载超时(秒) (默认:30)
	VideoTimeout  int `json:"video_timeout" mapstructure:"video_timeout"`   // 视频下载超时(秒) (默认:60)
	ChunkSize     int `json:"chunk_size" mapstructure:"chunk_size"`         // 流式写盘的分块大小(字节) (默认:8192)

	// Ghost博客媒体路径特征,空字符串表示不过滤
	ImagePathPattern string `json:"image_path_pattern" mapstructure:"image_path_pattern"` // 图片路径特征 (默认:/content/images/)
	VideoPathPattern string `json:"video_path_pattern" mapstructure:"video_path_pattern"` // 视频路径特征 (默认:/content/media/)
}

// Validate 验证管线配置
func (c *PipelineConfig) Validate() error {
	if c.MaxWorkers < 1 || c.MaxWorkers > 100 {
		return fmt.Errorf("下载并发数必须在1-100之间")
	}
	if c.ProgressEvery < 1 {
		return fmt.Errorf("进度汇报间隔必须大于0")
	}
	if c.ImageTimeout < 1 || c.ImageTimeout > 600 {
		return fmt.Errorf("图片超时必须在1-600秒之间")
	}
	if c.VideoTimeout < 1 || c.VideoTimeout > 3600 {
		return fmt.Errorf("视频超时必须在1-3600秒之间")
	}
	if c.ChunkSize < 512 || c.ChunkSize > 10*1024*1024 {
		return fmt.Errorf("分块大小必须在512字节-10MB之间")
	}
	return nil
}

// ImageTimeoutDuration 图片超时时长
func (c *PipelineConfig) ImageTimeoutDuration() time.Duration {
	return time.Duration(c.ImageTimeout) * time.Second
}

// VideoTimeoutDuration 视频超时时长
func (c *PipelineConfig) VideoTimeoutDuration() time.Duration {
	return time.Duration(c.VideoTimeout) * time.Second
}
