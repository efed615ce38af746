package models

import (
	"net/url"
	"path"
	"strings"
)

const (
	// SlugHomepage 首页的保留slug
	// 路径为空或仅为根路径的URL都映射到这个slug
	SlugHomepage = "_homepage"

	// FolderShared 跨文章共享媒体的保留目录
	// 同一个媒体URL出现在多个slug下时,归属到这个目录
	FolderShared = "_shared"
)

// VideoExtensions 支持的视频文件扩展名
var VideoExtensions = []string{".mp4", ".webm", ".mov", ".avi"}

// MediaKind 媒体类型
type MediaKind string

const (
	MediaImage MediaKind = "image" // 图片 (含视频封面图)
	MediaVideo MediaKind = "video" // 视频
)

// MediaRef 从单个页面提取出的一条媒体引用
// 不变式: URL总是绝对URL (相对URL在提取阶段已按页面URL解析)
type MediaRef struct {
	// URL 媒体的绝对URL
	URL string `json:"url"`

	// Kind 媒体类型 (image/video)
	Kind MediaKind `json:"kind"`

	// Slug 引用该媒体的文章slug
	Slug string `json:"slug"`
}

// DownloadTarget 归属解析后的下载目标
// 每个唯一的媒体URL恰好对应一个DownloadTarget
type DownloadTarget struct {
	// MediaURL 媒体的绝对URL
	MediaURL string `json:"media_url"`

	// Kind 媒体类型 (决定下载超时等级)
	Kind MediaKind `json:"kind"`

	// Folder 目标目录名: slug、_homepage 或 _shared
	Folder string `json:"folder"`
}

// DownloadStatus 单个目标的下载结果状态
type DownloadStatus string

const (
	StatusDownloaded DownloadStatus = "downloaded" // 已下载
	StatusSkipped    DownloadStatus = "skipped"    // 本地已存在,跳过
	StatusFailed     DownloadStatus = "failed"     // 失败
)

// DownloadOutcome 单个目标的下载结果
type DownloadOutcome struct {
	Target   DownloadTarget `json:"target"`
	Status   DownloadStatus `json:"status"`
	FilePath string         `json:"file_path,omitempty"` // 本地文件路径 (下载或跳过时)
	Size     int64          `json:"size,omitempty"`      // 写入字节数 (仅下载时)
	Err      string         `json:"error,omitempty"`     // 错误详情 (仅失败时)
}

// DownloadSummary 一次下载批次的汇总统计
type DownloadSummary struct {
	Total      int     `json:"total"`      // 目标总数
	Downloaded int     `json:"downloaded"` // 成功下载数
	Skipped    int     `json:"skipped"`    // 跳过数 (断点续传)
	Failed     int     `json:"failed"`     // 失败数
	TotalSize  int64   `json:"total_size"` // 下载总字节数
	Duration   float64 `json:"duration"`   // 总耗时(秒)

	// Failures 失败目标明细 (仅保留在本次运行的汇总中,不跨运行持久化)
	Failures []DownloadOutcome `json:"failures,omitempty"`
}

// IsVideoURL 根据扩展名判断URL是否指向视频文件
func IsVideoURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	// 去掉查询参数再判断扩展名
	if idx := strings.IndexAny(lower, "?#"); idx != -1 {
		lower = lower[:idx]
	}
	for _, ext := range VideoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// BasenameFromURL 从URL路径中提取文件名
// 返回空字符串表示URL没有可用的文件名部分
func BasenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
