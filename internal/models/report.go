package models

import (
	"encoding/json"
	"time"
)

// RunReport 一次完整运行的报告
type RunReport struct {
	// 运行信息
	RunID  string `json:"run_id"`
	Source string `json:"source"` // 页面来源 (目标URL、sitemap或缓存文件)
	Mode   string `json:"mode"`   // crawl / sitemap / cache

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 规模信息
	PageCount   int `json:"page_count"`   // 处理的页面数
	TargetCount int `json:"target_count"` // 解析出的下载目标数
	SharedCount int `json:"shared_count"` // 跨文章共享的媒体数

	// 下载汇总
	Summary DownloadSummary `json:"summary"`

	// 输出路径
	OutputDir string `json:"output_dir"`

	// 配置快照
	Config PipelineConfig `json:"config"`
}

// ToJSON 序列化为JSON
func (r *RunReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *RunReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
