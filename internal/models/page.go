package models

import "time"

// Page 一个已抓取的页面
// 统一的数据结构: 无论页面来自实时抓取还是缓存文件,
// 提取器和聚合器看到的都是同一个Page结构
type Page struct {
	// URL 页面完整URL
	URL string `json:"url"`

	// HTML 页面原始HTML内容
	HTML string `json:"html"`

	// FetchedAt 抓取时间
	FetchedAt time.Time `json:"fetched_at"`

	// Metadata 附加元数据 (如HTTP状态码、Content-Type等)
	Metadata map[string]string `json:"metadata,omitempty"`
}

// HasContent 检查页面是否有可解析的内容
func (p *Page) HasContent() bool {
	return p.HTML != ""
}
