package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/MediaCrawl/internal/core"
	"github.com/RecoveryAshes/MediaCrawl/internal/fetch"
	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// 页面来源参数
	targetURL   string
	sitemapURLs []string
	pageLimit   int

	// 缓存参数
	cacheFile string
	saveCache bool
	useCache  bool

	// 下载参数
	dryRun    bool
	outputDir string
	threads   int

	// 自定义HTTP头部 (格式 "Name: Value",可多次指定)
	cliHeaders []string
)

var rootCmd = &cobra.Command{
	Use:   "mediacrawl",
	Short: "Ghost博客媒体爬取和下载工具",
	Long: `MediaCrawl - Ghost博客图片/视频爬取和归档工具 (Go版本)

按文章slug整理下载博客的全部媒体文件,支持:
  • 爬取模式和sitemap模式两种页面来源
  • 视频封面图提取
  • 跨文章共享媒体识别 (归档到_shared目录)
  • 断点续传: 已下载的文件自动跳过
  • 抓取结果缓存,提取/下载阶段可离线重跑
  • 并发下载与实时进度

使用示例:
  # 爬取模式
  mediacrawl --url https://www.produktiv.me --limit 100

  # sitemap模式并保存缓存
  mediacrawl --sitemap https://www.produktiv.me/sitemap-posts.xml --save-cache

  # 从缓存重跑下载(断点续传)
  mediacrawl --use-cache

  # 只看清单不下载
  mediacrawl --use-cache --dry-run

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 设置信号处理(Ctrl+C优雅退出)
		// 中断时不会留下半成品文件: 下载经由临时文件原子落位,重跑即续传
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		go func() {
			sig := <-sigChan
			utils.Warnf("收到中断信号: %v, 退出 (重新运行即可续传)", sig)
			os.Exit(0)
		}()

		// 如果没有提供任何页面来源,显示帮助信息
		if targetURL == "" && len(sitemapURLs) == 0 && !useCache {
			return cmd.Help()
		}

		// 验证参数
		if err := ValidateFlags(targetURL, sitemapURLs, useCache, pageLimit, threads); err != nil {
			return err
		}

		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig.MergeCLIFlags(pageLimit, threads, outputDir, cacheFile)

		if err := appConfig.Fetch.Validate(); err != nil {
			return fmt.Errorf("抓取配置无效: %w", err)
		}
		if err := appConfig.Download.Validate(); err != nil {
			return fmt.Errorf("下载配置无效: %w", err)
		}

		// 解析自定义HTTP头部(抓取和下载请求都会带上)
		headers, err := models.CliHeaders(cliHeaders).Parse()
		if err != nil {
			return err
		}

		// 获取页面集合: 缓存 / sitemap / 爬取
		pages, source, mode, err := acquirePages(appConfig, headers)
		if err != nil {
			return err
		}

		if len(pages) == 0 {
			utils.Warn("没有获取到任何页面")
			return nil
		}

		// 保存缓存(仅实时抓取模式)
		if saveCache && mode != "cache" {
			if err := models.SaveCacheToFile(pages, appConfig.Output.CacheFile); err != nil {
				return fmt.Errorf("保存缓存失败: %w", err)
			}
			utils.Infof("💾 已保存 %d 个页面到 %s", len(pages), appConfig.Output.CacheFile)
		}

		// 执行媒体管线
		pipeline := core.NewPipeline(appConfig).WithHeaders(headers)
		if _, err := pipeline.Run(pages, source, mode, dryRun); err != nil {
			return fmt.Errorf("管线执行失败: %w", err)
		}

		utils.Info("✨ 任务完成!")
		return nil
	},
}

// acquirePages 按模式获取页面集合
// 返回: 页面、来源描述、模式名
func acquirePages(config *core.Config, headers http.Header) ([]models.Page, string, string, error) {
	switch {
	case useCache:
		pages, err := models.LoadCacheFromFile(config.Output.CacheFile)
		if err != nil {
			return nil, "", "", fmt.Errorf("加载缓存失败 (可改用--url或--sitemap重新抓取): %w", err)
		}
		utils.Infof("📦 从缓存加载 %d 个页面: %s", len(pages), config.Output.CacheFile)
		return pages, config.Output.CacheFile, "cache", nil

	case len(sitemapURLs) > 0:
		urls, err := fetch.FetchSitemapURLs(sitemapURLs)
		if err != nil {
			return nil, "", "", fmt.Errorf("解析sitemap失败: %w", err)
		}
		fetcher := fetch.NewFetcher(config.Fetch).WithHeaders(headers)
		pages, err := fetcher.Scrape(urls)
		if err != nil {
			return nil, "", "", fmt.Errorf("抓取页面失败: %w", err)
		}
		return pages, sitemapURLs[0], "sitemap", nil

	default:
		fetcher := fetch.NewFetcher(config.Fetch).WithHeaders(headers)
		pages, err := fetcher.Crawl(targetURL)
		if err != nil {
			return nil, "", "", fmt.Errorf("爬取失败: %w", err)
		}
		return pages, targetURL, "crawl", nil
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MediaCrawl %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// 页面来源参数
	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "博客URL (爬取模式)")
	rootCmd.Flags().StringArrayVar(&sitemapURLs, "sitemap", []string{}, "sitemap URL (sitemap模式,可多次指定)")
	rootCmd.Flags().IntVar(&pageLimit, "limit", 0, "最大抓取页面数 (仅爬取模式)")

	// 缓存参数
	rootCmd.Flags().StringVar(&cacheFile, "cache-file", "", "抓取结果缓存文件路径")
	rootCmd.Flags().BoolVar(&saveCache, "save-cache", false, "抓取结束后保存缓存文件")
	rootCmd.Flags().BoolVar(&useCache, "use-cache", false, "从缓存加载页面,跳过抓取")

	// 下载参数
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "只显示媒体清单,不下载")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "输出目录")
	rootCmd.Flags().IntVar(&threads, "threads", 0, "下载并发数")
	rootCmd.Flags().StringArrayVar(&cliHeaders, "header", []string{}, `自定义HTTP头部 (格式 "Name: Value",可多次指定)`)

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
