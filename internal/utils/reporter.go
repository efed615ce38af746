package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/schollz/progressbar/v3"
)

// ReportDirName 输出根目录下的报告子目录
// 下划线前缀与保留目录(_homepage/_shared)同一命名空间,避免与文章slug目录冲突
const ReportDirName = "_reports"

// Reporter 运行报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// WriteRunReport 生成本次运行的JSON报告
// 产出: run_report.json (完整报告) + failed_targets.json (失败目标明细)
func (r *Reporter) WriteRunReport(report *models.RunReport) error {
	reportsDir := filepath.Join(r.outputDir, ReportDirName)
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	if err := r.saveJSONReport(reportsDir, "run_report.json", report); err != nil {
		return err
	}

	// 失败明细单独落一份,方便人工排查后重跑
	if err := r.saveJSONReport(reportsDir, "failed_targets.json", report.Summary.Failures); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", reportsDir)
	return nil
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(dir string, filename string, data interface{}) error {
	reportPath := filepath.Join(dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(reportPath, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", reportPath)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
