// Package fetch 页面抓取层
// 职责: 为媒体管线提供Page记录(url+html),支持两种来源:
//   - 爬取模式: 从入口URL出发,跟随同域名链接,直到达到页面数上限
//   - 列表模式: 并发抓取一组显式给定的页面URL (通常来自sitemap)
//
// 管线本身不关心页面来自哪种模式还是缓存文件
package fetch

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
	"github.com/gocolly/colly/v2"
)

// Fetcher 页面抓取器(基于Colly)
type Fetcher struct {
	config  models.FetchConfig
	headers http.Header

	// 收集到的页面
	pages []models.Page
	mu    sync.Mutex

	// 爬取模式下已入队的URL数,用于执行页面数上限
	queued int

	// 页面数上限仅在爬取模式下生效;列表模式抓取调用方给出的全部URL
	capPages bool
}

// NewFetcher 创建页面抓取器
func NewFetcher(config models.FetchConfig) *Fetcher {
	return &Fetcher{
		config: config,
		pages:  make([]models.Page, 0),
	}
}

// WithHeaders 设置随每个页面请求发送的自定义HTTP头部
// 用于访问需要Cookie或认证头的站点
func (f *Fetcher) WithHeaders(headers http.Header) *Fetcher {
	f.headers = headers
	return f
}

// Crawl 爬取模式: 从入口URL出发跟随同域名链接
// 返回收集到的页面集合,数量不超过配置的上限
func (f *Fetcher) Crawl(startURL string) ([]models.Page, error) {
	parsed, err := url.Parse(startURL)
	if err != nil {
		return nil, err
	}
	targetHost := parsed.Host

	utils.Infof("🔍 开始爬取: %s (上限 %d 页, 并发 %d)", startURL, f.config.Limit, f.config.MaxWorkers)

	c := f.newCollector()

	// 跟随页面链接(仅同域名,受页面数上限约束)
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || !strings.HasPrefix(link, "http") {
			return
		}

		if f.config.SameHost {
			linkURL, err := url.Parse(link)
			if err != nil || linkURL.Host != targetHost {
				return
			}
		}

		f.mu.Lock()
		if f.queued >= f.config.Limit {
			f.mu.Unlock()
			return
		}
		f.queued++
		f.mu.Unlock()

		// 已访问过的URL由Colly内部去重
		if err := e.Request.Visit(link); err != nil {
			f.mu.Lock()
			f.queued--
			f.mu.Unlock()
		}
	})

	f.mu.Lock()
	f.queued = 1
	f.capPages = true
	f.mu.Unlock()

	if err := c.Visit(startURL); err != nil {
		return nil, err
	}
	c.Wait()

	utils.Infof("✅ 爬取完成: 收集 %d 个页面", len(f.pages))
	return f.takePages(), nil
}

// Scrape 列表模式: 并发抓取显式给定的URL列表
// 单个URL的失败只记录警告,不影响其余URL;
// 页面数上限在此模式下不生效,调用方给出的URL全部抓取
func (f *Fetcher) Scrape(urls []string) ([]models.Page, error) {
	utils.Infof("📄 开始抓取 %d 个页面 (并发 %d)", len(urls), f.config.MaxWorkers)

	c := f.newCollector()

	for _, pageURL := range urls {
		if err := c.Visit(pageURL); err != nil {
			utils.Warnf("提交抓取失败 [%s]: %v", pageURL, err)
		}
	}
	c.Wait()

	utils.Infof("✅ 抓取完成: 成功 %d/%d", len(f.pages), len(urls))
	return f.takePages(), nil
}

// newCollector 构造Colly collector
// TLS证书验证放宽,允许访问证书不规范的博客站点
func (f *Fetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(colly.Async(true))

	httpTimeout := time.Duration(f.config.Timeout) * time.Second
	c.SetClient(&http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		Timeout: httpTimeout,
	})
	c.SetRequestTimeout(httpTimeout)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: f.config.MaxWorkers,
		Delay:       0,
	}); err != nil {
		utils.Warnf("设置抓取并发限制失败: %v", err)
	}

	c.OnRequest(func(r *colly.Request) {
		for name, values := range f.headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[len(values)-1])
			}
		}
	})

	c.OnResponse(func(r *colly.Response) {
		f.collectPage(r)
	})

	c.OnError(func(r *colly.Response, err error) {
		utils.Warnf("抓取页面失败 [%s]: %v", r.Request.URL, err)
	})

	return c
}

// collectPage 把HTML响应收集为Page记录
// 非HTML响应(图片、二进制等)直接忽略,页面抓取阶段只关心标记文本
func (f *Fetcher) collectPage(r *colly.Response) {
	contentType := r.Headers.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		utils.Debugf("忽略非HTML响应 [%s]: %s", r.Request.URL, contentType)
		return
	}

	body := r.Body
	if encoding := r.Headers.Get("Content-Encoding"); encoding != "" {
		decompressed, err := decompressBody(encoding, r.Body)
		if err != nil {
			utils.Warnf("解压响应失败 [%s] (编码=%s): %v", r.Request.URL, encoding, err)
		} else {
			body = decompressed
		}
	}

	page := models.Page{
		URL:       r.Request.URL.String(),
		HTML:      string(body),
		FetchedAt: time.Now(),
		Metadata: map[string]string{
			"status_code":  strconv.Itoa(r.StatusCode),
			"content_type": contentType,
		},
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.capPages && len(f.pages) >= f.config.Limit {
		return
	}
	f.pages = append(f.pages, page)
	utils.Debugf("  ✓ [%d] %s", len(f.pages), page.URL)
}

// takePages 取出收集结果并重置内部状态
func (f *Fetcher) takePages() []models.Page {
	f.mu.Lock()
	defer f.mu.Unlock()

	pages := f.pages
	f.pages = make([]models.Page, 0)
	f.queued = 0
	f.capPages = false
	return pages
}
