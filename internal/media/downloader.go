package media

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// downloadUserAgent 下载请求使用的User-Agent
	downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// partSuffix 下载中的临时文件后缀
	// 临时文件通过原子重命名落到最终路径,进程中断不会留下半成品的最终文件
	partSuffix = ".part"

	// workerMemoryBudget 单个下载worker的内存预算估计
	// 视频下载是流式写盘,这个值主要覆盖HTTP缓冲和分块buffer
	workerMemoryBudget = 32 * 1024 * 1024
)

// Downloader 断点续传下载引擎
// 固定大小的worker池并发执行下载任务,结果按完成顺序收集;
// 本地已存在的文件直接跳过,因此重复运行总是安全的增量操作
type Downloader struct {
	config     models.PipelineConfig
	outputRoot string
	headers    http.Header

	// 按媒体类型区分超时等级的HTTP客户端
	imageClient *http.Client
	videoClient *http.Client
}

// NewDownloader 创建下载引擎
func NewDownloader(config models.PipelineConfig, outputRoot string) *Downloader {
	return &Downloader{
		config:      config,
		outputRoot:  outputRoot,
		imageClient: &http.Client{Timeout: config.ImageTimeoutDuration()},
		videoClient: &http.Client{Timeout: config.VideoTimeoutDuration()},
	}
}

// WithHeaders 设置随每个下载请求发送的自定义HTTP头部
// 同名头部覆盖默认的User-Agent
func (d *Downloader) WithHeaders(headers http.Header) *Downloader {
	d.headers = headers
	return d
}

// Run 执行下载批次
// 单个目标的失败只记为failed结果,永远不会中止整个批次;
// 每个worker写各自唯一的临时文件再原子rename,目标路径碰撞也不会交错写入
func (d *Downloader) Run(targets []models.DownloadTarget) models.DownloadSummary {
	startTime := time.Now()
	total := len(targets)

	summary := models.DownloadSummary{Total: total}
	if total == 0 {
		utils.Info("没有需要下载的媒体")
		return summary
	}

	workers := d.effectiveWorkers(total)
	utils.Infof("📥 开始下载 %d 个媒体文件 (并发=%d, 输出=%s)", total, workers, d.outputRoot)

	jobs := make(chan models.DownloadTarget)
	results := make(chan models.DownloadOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				results <- d.downloadOne(target)
			}
		}()
	}

	go func() {
		for _, target := range targets {
			jobs <- target
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	bar := utils.NewProgressBar(total, "下载媒体")
	completed := 0

	// 未经Validate的配置也不能让进度汇报除零
	progressEvery := d.config.ProgressEvery
	if progressEvery < 1 {
		progressEvery = 1
	}

	for outcome := range results {
		completed++
		switch outcome.Status {
		case models.StatusDownloaded:
			summary.Downloaded++
			summary.TotalSize += outcome.Size
		case models.StatusSkipped:
			summary.Skipped++
		case models.StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, outcome)
			utils.Warnf("下载失败 [%s] %s: %s", outcome.Target.Folder, outcome.Target.MediaURL, outcome.Err)
		}

		_ = bar.Add(1)

		// 固定间隔汇报进度,completed只增不减
		if completed%progressEvery == 0 || completed == total {
			utils.Infof("进度: %d/%d (下载 %d, 跳过 %d, 失败 %d)",
				completed, total, summary.Downloaded, summary.Skipped, summary.Failed)
		}
	}

	summary.Duration = time.Since(startTime).Seconds()

	utils.Infof("✅ 下载批次完成: 下载 %d, 跳过 %d, 失败 %d, 共 %.2f MB, 耗时 %.2f秒",
		summary.Downloaded, summary.Skipped, summary.Failed,
		float64(summary.TotalSize)/(1024*1024), summary.Duration)

	return summary
}

// downloadOne 下载单个目标
// 失败在此处就地恢复为failed结果,不向上传播
func (d *Downloader) downloadOne(target models.DownloadTarget) models.DownloadOutcome {
	outcome := models.DownloadOutcome{Target: target}

	filename := models.BasenameFromURL(target.MediaURL)
	if filename == "" {
		outcome.Status = models.StatusFailed
		outcome.Err = "URL路径中没有可用的文件名"
		return outcome
	}

	targetDir := filepath.Join(d.outputRoot, target.Folder)
	filePath := filepath.Join(targetDir, filename)
	outcome.FilePath = filePath

	// 断点续传检查: 文件已落盘则不发起任何网络请求
	if _, err := os.Stat(filePath); err == nil {
		utils.Debugf("跳过已存在文件: [%s] %s", target.Folder, filename)
		outcome.Status = models.StatusSkipped
		return outcome
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		outcome.Status = models.StatusFailed
		outcome.Err = fmt.Sprintf("创建目录失败: %v", err)
		return outcome
	}

	size, err := d.fetchToFile(target, filePath)
	if err != nil {
		outcome.Status = models.StatusFailed
		outcome.Err = err.Error()
		return outcome
	}

	utils.Debugf("📥 下载成功: [%s] %s (%d bytes)", target.Folder, filename, size)
	outcome.Status = models.StatusDownloaded
	outcome.Size = size
	return outcome
}

// fetchToFile 流式抓取媒体URL并写入最终路径
// 响应体按固定大小分块写盘,大视频文件不会整体驻留内存
func (d *Downloader) fetchToFile(target models.DownloadTarget, filePath string) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, target.MediaURL, nil)
	if err != nil {
		return 0, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)
	for name, values := range d.headers {
		if len(values) > 0 {
			req.Header.Set(name, values[len(values)-1])
		}
	}

	resp, err := d.clientFor(target).Do(req)
	if err != nil {
		return 0, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP状态异常: %d", resp.StatusCode)
	}

	// 临时文件名对每个任务唯一: 两个URL落到同一目标路径时(basename碰撞),
	// 各自写各自的临时文件,最终rename是后写者胜,留下的总是某一个完整的内容
	tmpFile, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+partSuffix+"*")
	if err != nil {
		return 0, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmpFile.Name()

	buf := make([]byte, d.config.ChunkSize)
	size, err := io.CopyBuffer(tmpFile, resp.Body, buf)
	if err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("写入文件失败: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("关闭临时文件失败: %w", err)
	}

	// 原子落位: 最终路径上永远不会出现写了一半的文件
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("重命名文件失败: %w", err)
	}

	return size, nil
}

// clientFor 按媒体类型选择超时等级
// 视频URL(按扩展名判断)使用较长超时,其余按图片处理
func (d *Downloader) clientFor(target models.DownloadTarget) *http.Client {
	if target.Kind == models.MediaVideo || models.IsVideoURL(target.MediaURL) {
		return d.videoClient
	}
	return d.imageClient
}

// effectiveWorkers 计算实际worker数
// 配置值是上限,再按目标数量和系统可用内存收紧
func (d *Downloader) effectiveWorkers(total int) int {
	workers := d.config.MaxWorkers
	if total < workers {
		workers = total
	}

	if byMemory := maxWorkersByMemory(); byMemory > 0 && byMemory < workers {
		utils.Warnf("可用内存不足,下载并发从 %d 降至 %d", workers, byMemory)
		workers = byMemory
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

// maxWorkersByMemory 根据系统可用内存估算worker上限
// 获取失败时返回0,表示不做内存收紧
func maxWorkersByMemory() int {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		utils.Debugf("获取系统内存失败,跳过内存限制: %v", err)
		return 0
	}

	byMemory := int(vmStat.Available / workerMemoryBudget)
	if byMemory < 1 {
		return 1
	}
	return byMemory
}
