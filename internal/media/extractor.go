package media

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
	"github.com/RecoveryAshes/MediaCrawl/internal/utils"
	"golang.org/x/net/html"
)

// ExtractRules 媒体提取规则
// 路径特征为空字符串时不做过滤,收集所有媒体URL
type ExtractRules struct {
	// ImagePathPattern 图片URL必须包含的路径特征
	ImagePathPattern string

	// VideoPathPattern 视频URL必须包含的路径特征
	VideoPathPattern string
}

// DefaultExtractRules Ghost博客的默认媒体路径特征
func DefaultExtractRules() ExtractRules {
	return ExtractRules{
		ImagePathPattern: "/content/images/",
		VideoPathPattern: "/content/media/",
	}
}

// styleURLPattern 匹配内联style中的 url(...) 片段
// 视频封面图由Ghost写在video标签的style属性里
var styleURLPattern = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// ExtractMedia 从单个页面提取媒体引用
// 处理流程:
//  1. 解析HTML树,收集img和video的src属性
//  2. 扫描video标签的style属性,提取url(...)形式的封面图
//  3. 所有URL按页面自身URL解析为绝对URL,仍无法解析的丢弃并记录警告
//  4. 页面内完全相同的URL去重后输出
//
// 纯函数: 相同的Page输入总是得到相同的输出
// 空白或畸形的HTML得到空结果,不是错误;没有媒体的页面是正常情况
func ExtractMedia(page models.Page, rules ExtractRules) []models.MediaRef {
	if !page.HasContent() {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		// html.Parse对畸形输入极少报错,报错时按无媒体页面处理
		utils.Warnf("解析页面HTML失败 [%s]: %v", page.URL, err)
		return nil
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		utils.Warnf("解析页面URL失败 [%s]: %v", page.URL, err)
		base = nil
	}

	slug := ResolveSlug(page.URL)

	refs := make([]models.MediaRef, 0)
	seen := make(map[string]bool)

	emit := func(candidate string, kind models.MediaKind) {
		absolute, ok := resolveCandidate(base, candidate)
		if !ok {
			utils.Warnf("丢弃无法解析的媒体URL [slug=%s]: %s", slug, candidate)
			return
		}
		if seen[absolute] {
			return
		}
		seen[absolute] = true
		refs = append(refs, models.MediaRef{
			URL:  absolute,
			Kind: kind,
			Slug: slug,
		})
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "img":
				if src := attrValue(n, "src"); src != "" {
					if matchesPattern(base, src, rules.ImagePathPattern) {
						emit(src, models.MediaImage)
					}
				}
			case "video":
				if src := attrValue(n, "src"); src != "" {
					if matchesPattern(base, src, rules.VideoPathPattern) {
						emit(src, models.MediaVideo)
					}
				}
				// 封面图藏在style属性的url(...)中,作为图片输出
				if thumb := extractStyleThumbnail(n); thumb != "" {
					if matchesPattern(base, thumb, rules.ImagePathPattern) ||
						matchesPattern(base, thumb, rules.VideoPathPattern) {
						emit(thumb, models.MediaImage)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return refs
}

// extractStyleThumbnail 从video标签的style属性提取封面图URL
func extractStyleThumbnail(n *html.Node) string {
	style := attrValue(n, "style")
	if style == "" || !strings.Contains(style, "url(") {
		return ""
	}
	match := styleURLPattern.FindStringSubmatch(style)
	if match == nil {
		return ""
	}
	return match[1]
}

// attrValue 取节点的第一个同名属性值
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// resolveCandidate 把候选URL解析为绝对URL
// base为nil时仅接受本身已是绝对形式的候选URL
func resolveCandidate(base *url.URL, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}

	if base != nil {
		parsed = base.ResolveReference(parsed)
	}

	if !parsed.IsAbs() || parsed.Host == "" {
		return "", false
	}

	return parsed.String(), true
}

// matchesPattern 检查候选URL(解析为绝对形式后)是否包含路径特征
// 空特征表示不过滤
func matchesPattern(base *url.URL, candidate string, pattern string) bool {
	if pattern == "" {
		return true
	}
	absolute, ok := resolveCandidate(base, candidate)
	if !ok {
		// 留给emit阶段统一记录丢弃警告
		return true
	}
	return strings.Contains(absolute, pattern)
}
