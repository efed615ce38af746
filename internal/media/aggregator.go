package media

import (
	"sort"
	"strings"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
)

// Aggregate 把全量(媒体URL, slug)对解析为每个URL唯一的下载目标
//
// 这是一个屏障阶段: 必须先看完整个页面语料才能产出任何目标,
// 因为共享媒体的判定是全局性质,单个页面无法得出
//
// 归属规则:
//   - URL只出现在一个slug下 -> 目标目录为该slug
//   - URL出现在多个slug下   -> 目标目录为 _shared
//   - 唯一归属是_homepage   -> 目标目录为 _homepage
//
// URL按精确字符串相等判定: 仅跟踪参数不同的两个URL视为不同媒体,
// 这与来源数据的语义保持一致,不做规范化
func Aggregate(refs []models.MediaRef) []models.DownloadTarget {
	type entry struct {
		kind  models.MediaKind
		slugs map[string]bool
	}

	// 按首次出现顺序记录URL,保证输出确定性
	order := make([]string, 0)
	entries := make(map[string]*entry)

	for _, ref := range refs {
		e, exists := entries[ref.URL]
		if !exists {
			e = &entry{kind: ref.Kind, slugs: make(map[string]bool)}
			entries[ref.URL] = e
			order = append(order, ref.URL)
		}
		e.slugs[ref.Slug] = true
	}

	targets := make([]models.DownloadTarget, 0, len(order))
	sharedCount := 0

	for _, mediaURL := range order {
		e := entries[mediaURL]

		var folder string
		if len(e.slugs) > 1 {
			folder = models.FolderShared
			sharedCount++
			utils.Infof("共享媒体 %s 出现在 %d 篇文章: %s",
				models.BasenameFromURL(mediaURL), len(e.slugs), strings.Join(sortedSlugs(e.slugs), ", "))
		} else {
			// 唯一归属;_homepage slug自然落到_homepage目录
			for slug := range e.slugs {
				folder = slug
			}
		}

		targets = append(targets, models.DownloadTarget{
			MediaURL: mediaURL,
			Kind:     e.kind,
			Folder:   folder,
		})
	}

	utils.Infof("归属解析完成: %d 个唯一媒体URL, 其中 %d 个跨文章共享", len(targets), sharedCount)
	return targets
}

// CountShared 统计目标中归属到共享目录的数量
func CountShared(targets []models.DownloadTarget) int {
	count := 0
	for _, t := range targets {
		if t.Folder == models.FolderShared {
			count++
		}
	}
	return count
}

// sortedSlugs 排序后的slug列表,用于日志输出
func sortedSlugs(set map[string]bool) []string {
	slugs := make([]string, 0, len(set))
	for s := range set {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}
