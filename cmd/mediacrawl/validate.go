package main

import (
	"fmt"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(targetURL string, sitemapURLs []string, useCache bool, limit int, threads int) error {
	// 模式互斥检查
	if targetURL != "" && len(sitemapURLs) > 0 {
		return fmt.Errorf("--url和--sitemap不能同时使用,请选择一种模式")
	}
	if targetURL == "" && len(sitemapURLs) == 0 && !useCache {
		return fmt.Errorf("必须提供--url、--sitemap或--use-cache之一")
	}

	// 验证URL
	if targetURL != "" {
		if err := models.ValidateURL(targetURL); err != nil {
			return fmt.Errorf("无效的目标URL: %w", err)
		}
	}
	for _, sitemapURL := range sitemapURLs {
		if err := models.ValidateURL(sitemapURL); err != nil {
			return fmt.Errorf("无效的sitemap URL [%s]: %w", sitemapURL, err)
		}
	}

	// 验证数值范围 (0表示使用配置文件/默认值)
	if limit < 0 || limit > 10000 {
		return fmt.Errorf("页面数量限制必须在1-10000之间,当前值: %d", limit)
	}
	if threads < 0 || threads > 100 {
		return fmt.Errorf("下载并发数必须在1-100之间,当前值: %d", threads)
	}

	return nil
}
