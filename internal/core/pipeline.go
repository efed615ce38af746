package core

import (
	"net/http"
	"sort"
	"time"

	"github.com/RecoveryAshes/MediaCrawl/internal/media"
	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
)

// Pipeline 媒体管线编排器
// 执行流程:
//  1. 逐页提取媒体引用 (单线程,CPU轻量)
//  2. 全量归属聚合 (屏障: 必须看完全部页面)
//  3. 并发下载批次 (唯一会在网络/磁盘IO上挂起的阶段)
//  4. 打印汇总并生成运行报告
type Pipeline struct {
	config  *Config
	rules   media.ExtractRules
	headers http.Header
	runID   string
}

// NewPipeline 创建管线编排器
func NewPipeline(config *Config) *Pipeline {
	return &Pipeline{
		config: config,
		rules: media.ExtractRules{
			ImagePathPattern: config.Download.ImagePathPattern,
			VideoPathPattern: config.Download.VideoPathPattern,
		},
		runID: models.NewRunID(),
	}
}

// WithHeaders 设置下载请求使用的自定义HTTP头部
func (p *Pipeline) WithHeaders(headers http.Header) *Pipeline {
	p.headers = headers
	return p
}

// Run 对页面集合执行完整管线
// dryRun为true时只打印目标清单,不执行任何下载
func (p *Pipeline) Run(pages []models.Page, source string, mode string, dryRun bool) (*models.DownloadSummary, error) {
	startTime := time.Now()

	utils.Infof("🚀 开始媒体管线 (run_id=%s)", p.runID)
	utils.Infof("页面数: %d", len(pages))
	utils.Infof("输出目录: %s", p.config.Output.BaseDir)

	targets := p.resolveTargets(pages)

	if dryRun {
		p.printDryRunReport(targets)
		return nil, nil
	}

	downloader := media.NewDownloader(p.config.Download, p.config.Output.BaseDir).WithHeaders(p.headers)
	summary := downloader.Run(targets)

	p.printSummary(&summary)

	report := &models.RunReport{
		RunID:       p.runID,
		Source:      source,
		Mode:        mode,
		StartTime:   startTime,
		EndTime:     time.Now(),
		Duration:    time.Since(startTime).Seconds(),
		PageCount:   len(pages),
		TargetCount: len(targets),
		SharedCount: media.CountShared(targets),
		Summary:     summary,
		OutputDir:   p.config.Output.BaseDir,
		Config:      p.config.Download,
	}

	reporter := utils.NewReporter(p.config.Output.BaseDir)
	if err := reporter.WriteRunReport(report); err != nil {
		utils.Warnf("生成报告失败: %v", err)
	}

	return &summary, nil
}

// resolveTargets 提取全部页面的媒体引用并做归属聚合
func (p *Pipeline) resolveTargets(pages []models.Page) []models.DownloadTarget {
	utils.Info("🖼️  从页面提取图片和视频:")

	allRefs := make([]models.MediaRef, 0)
	for _, page := range pages {
		refs := media.ExtractMedia(page, p.rules)
		slug := media.ResolveSlug(page.URL)

		if len(refs) > 0 {
			utils.Infof("  ✓ [%s] %s (%d 个媒体)", slug, page.URL, len(refs))
			for _, ref := range refs {
				utils.Debugf("    %s %s", mediaIcon(ref.Kind), models.BasenameFromURL(ref.URL))
			}
		} else {
			utils.Infof("  ✗ [%s] %s (无媒体)", slug, page.URL)
		}

		allRefs = append(allRefs, refs...)
	}

	// 屏障: 聚合在所有页面提取完成之后才开始
	return media.Aggregate(allRefs)
}

// printDryRunReport 打印试运行报告: 按目录分组的目标清单
func (p *Pipeline) printDryRunReport(targets []models.DownloadTarget) {
	utils.Infof("发现 %d 个媒体文件 (图片+视频):", len(targets))

	groups := make(map[string][]models.DownloadTarget)
	for _, t := range targets {
		groups[t.Folder] = append(groups[t.Folder], t)
	}

	folders := make([]string, 0, len(groups))
	for folder := range groups {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	videoCount := 0
	for _, folder := range folders {
		utils.Infof("📁 %s/ (%d 个文件)", folder, len(groups[folder]))
		for _, t := range groups[folder] {
			utils.Infof("  %s %s", mediaIcon(t.Kind), models.BasenameFromURL(t.MediaURL))
			if t.Kind == models.MediaVideo {
				videoCount++
			}
		}
	}

	utils.Info("📊 统计:")
	utils.Infof("  媒体文件总数: %d", len(targets))
	utils.Infof("  有媒体的目录数: %d", len(folders))
	utils.Infof("  视频: %d", videoCount)
	utils.Infof("  图片: %d", len(targets)-videoCount)
}

// printSummary 打印运行汇总块
func (p *Pipeline) printSummary(summary *models.DownloadSummary) {
	utils.Info("==================================================")
	utils.Info("📊 下载汇总")
	utils.Info("==================================================")
	utils.Infof("✅ 下载成功: %d", summary.Downloaded)
	utils.Infof("⏭️  跳过(已存在): %d", summary.Skipped)
	utils.Infof("❌ 失败: %d", summary.Failed)
	utils.Infof("📦 总大小: %.2f MB", float64(summary.TotalSize)/(1024*1024))
	utils.Infof("⏱️  总耗时: %.2f秒", summary.Duration)
	utils.Info("==================================================")

	if summary.Failed > 0 {
		utils.Warn("失败的目标:")
		for _, failure := range summary.Failures {
			utils.Warnf("  - [%s] %s: %s", failure.Target.Folder, failure.Target.MediaURL, failure.Err)
		}
		utils.Info("重新运行同一命令即可只重试缺失的文件")
	}
}

// mediaIcon 媒体类型图标
func mediaIcon(kind models.MediaKind) string {
	if kind == models.MediaVideo {
		return "🎬"
	}
	return "→"
}
