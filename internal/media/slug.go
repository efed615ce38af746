// Package media 实现媒体解析和断点续传下载管线
// 执行顺序: slug解析 -> 媒体提取 -> 归属聚合 -> 并发下载
package media

import (
	"net/url"
	"strings"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
)

// ResolveSlug 从页面URL推导文章slug
// 纯函数,无副作用,无失败路径: 畸形URL退化为尽力而为的路径段提取
//
// 规则(按顺序):
//  1. 路径为空或仅为根路径 -> 保留slug "_homepage"
//  2. 路径恰好一个非空段 -> 该段即为slug (如 https://produktiv.me/artikel-name/)
//  3. 路径多个段 -> 取最后一个非空段 (如 https://produktiv.me/tag/artikel-name/)
//
// 末尾斜杠和查询参数不参与路径分段
// 同一URL总是得到同一slug;不同页面末段相同会得到相同slug,这是预期的碰撞
func ResolveSlug(rawURL string) string {
	rawPath := rawURL

	if parsed, err := url.Parse(rawURL); err == nil {
		rawPath = parsed.Path
	} else {
		// 解析失败时退化处理: 剥掉协议和查询部分后按路径处理
		if idx := strings.Index(rawPath, "://"); idx != -1 {
			rawPath = rawPath[idx+3:]
			if slash := strings.Index(rawPath, "/"); slash != -1 {
				rawPath = rawPath[slash:]
			} else {
				rawPath = ""
			}
		}
		if idx := strings.IndexAny(rawPath, "?#"); idx != -1 {
			rawPath = rawPath[:idx]
		}
	}

	segments := splitPathSegments(rawPath)
	if len(segments) == 0 {
		return models.SlugHomepage
	}
	return segments[len(segments)-1]
}

// splitPathSegments 把URL路径拆成非空段
func splitPathSegments(rawPath string) []string {
	parts := strings.Split(rawPath, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
