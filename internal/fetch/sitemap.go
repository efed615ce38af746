package fetch

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
)

// sitemapTimeout sitemap抓取超时
const sitemapTimeout = 30 * time.Second

// FetchSitemapURLs 抓取并解析一组sitemap,返回去重后的页面URL列表
// 收集所有<loc>元素的文本,urlset和sitemapindex两种格式都能处理
func FetchSitemapURLs(sitemapURLs []string) ([]string, error) {
	client := &http.Client{Timeout: sitemapTimeout}

	allURLs := make([]string, 0)
	seen := make(map[string]bool)

	for _, sitemapURL := range sitemapURLs {
		utils.Infof("抓取sitemap: %s", sitemapURL)

		urls, err := fetchOneSitemap(client, sitemapURL)
		if err != nil {
			return nil, fmt.Errorf("抓取sitemap失败 [%s]: %w", sitemapURL, err)
		}

		added := 0
		for _, u := range urls {
			if !seen[u] {
				seen[u] = true
				allURLs = append(allURLs, u)
				added++
			}
		}
		utils.Infof("  在 %s 中发现 %d 个URL", sitemapURL, len(urls))
	}

	utils.Infof("去重后共 %d 个URL", len(allURLs))
	return allURLs, nil
}

// fetchOneSitemap 抓取单个sitemap并提取所有loc元素
func fetchOneSitemap(client *http.Client, sitemapURL string) ([]string, error) {
	resp, err := client.Get(sitemapURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP状态异常: %d", resp.StatusCode)
	}

	return parseSitemapLocs(resp.Body)
}

// parseSitemapLocs 流式解析XML,收集每个loc元素的文本内容
func parseSitemapLocs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	urls := make([]string, 0)
	inLoc := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析sitemap XML失败: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "loc" {
				inLoc = true
			}
		case xml.EndElement:
			if t.Name.Local == "loc" {
				inLoc = false
			}
		case xml.CharData:
			if inLoc {
				if loc := strings.TrimSpace(string(t)); loc != "" {
					urls = append(urls, loc)
				}
			}
		}
	}

	return urls, nil
}
