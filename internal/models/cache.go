package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CrawlCache 抓取结果缓存
// 用途: 把整个页面集合落盘,后续运行可以跳过抓取阶段直接进入提取/下载
// 所有权: 唯一写入者是抓取阶段结束后的保存操作,唯一读取者是管线入口
type CrawlCache struct {
	// Count 页面数量,加载时用于校验文件完整性
	Count int `json:"count"`

	// SavedAt 缓存写入时间
	SavedAt time.Time `json:"saved_at"`

	// Pages 页面集合 (url/html/metadata无损往返)
	Pages []Page `json:"pages"`
}

// ToJSON 序列化为JSON
func (c *CrawlCache) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// FromJSON 从JSON反序列化
func (c *CrawlCache) FromJSON(data []byte) error {
	return json.Unmarshal(data, c)
}

// SaveCacheToFile 把页面集合保存到缓存文件
// 写入是全有或全无的: 先写临时文件再原子替换目标路径,
// 失败的写入不会留下能被加载的半成品文件
func SaveCacheToFile(pages []Page, cachePath string) error {
	cache := CrawlCache{
		Count:   len(pages),
		SavedAt: time.Now(),
		Pages:   pages,
	}

	data, err := cache.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化缓存失败: %w", err)
	}

	if dir := filepath.Dir(cachePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建缓存目录失败: %w", err)
		}
	}

	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("写入临时缓存文件失败: %w", err)
	}

	if err := os.Rename(tmpPath, cachePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("替换缓存文件失败: %w", err)
	}

	return nil
}

// LoadCacheFromFile 从缓存文件加载页面集合
// 缓存损坏或缺失时返回错误,调用方应回退到重新抓取
func LoadCacheFromFile(cachePath string) ([]Page, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("读取缓存文件失败: %w", err)
	}

	var cache CrawlCache
	if err := cache.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析缓存文件失败: %w", err)
	}

	if cache.Count != len(cache.Pages) {
		return nil, fmt.Errorf("缓存文件校验失败: count=%d 但实际页面数=%d", cache.Count, len(cache.Pages))
	}

	return cache.Pages, nil
}
