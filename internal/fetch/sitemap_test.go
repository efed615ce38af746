package fetch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseSitemapLocs(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want []string
	}{
		{
			name: "标准urlset",
			xml: `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://blog.example.com/post-1/</loc></url>
  <url><loc>https://blog.example.com/post-2/</loc></url>
</urlset>`,
			want: []string{"https://blog.example.com/post-1/", "https://blog.example.com/post-2/"},
		},
		{
			name: "sitemapindex格式",
			xml: `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://blog.example.com/sitemap-posts.xml</loc></sitemap>
  <sitemap><loc>https://blog.example.com/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`,
			want: []string{"https://blog.example.com/sitemap-posts.xml", "https://blog.example.com/sitemap-pages.xml"},
		},
		{
			name: "loc文本带空白",
			xml: `<urlset><url><loc>
  https://blog.example.com/post-1/
</loc></url></urlset>`,
			want: []string{"https://blog.example.com/post-1/"},
		},
		{
			name: "空urlset",
			xml:  `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSitemapLocs(strings.NewReader(tt.xml))
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("URL数量不一致: 期望 %v, 得到 %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("URL[%d] 不一致: 期望 %q, 得到 %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestParseSitemapLocsInvalidXML(t *testing.T) {
	if _, err := parseSitemapLocs(strings.NewReader("<urlset><url></urlset")); err == nil {
		t.Error("非法XML应返回错误")
	}
}

func TestFetchSitemapURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap-a.xml":
			fmt.Fprint(w, `<urlset>
  <url><loc>https://blog.example.com/post-1/</loc></url>
  <url><loc>https://blog.example.com/post-2/</loc></url>
</urlset>`)
		case "/sitemap-b.xml":
			// post-2 重复出现,跨sitemap去重
			fmt.Fprint(w, `<urlset>
  <url><loc>https://blog.example.com/post-2/</loc></url>
  <url><loc>https://blog.example.com/post-3/</loc></url>
</urlset>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	urls, err := FetchSitemapURLs([]string{server.URL + "/sitemap-a.xml", server.URL + "/sitemap-b.xml"})
	if err != nil {
		t.Fatalf("抓取sitemap失败: %v", err)
	}

	want := []string{
		"https://blog.example.com/post-1/",
		"https://blog.example.com/post-2/",
		"https://blog.example.com/post-3/",
	}
	if len(urls) != len(want) {
		t.Fatalf("去重后URL数量不一致: 期望 %v, 得到 %v", want, urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("URL[%d] 不一致: 期望 %q, 得到 %q", i, want[i], urls[i])
		}
	}
}

func TestFetchSitemapURLsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	if _, err := FetchSitemapURLs([]string{server.URL + "/sitemap.xml"}); err == nil {
		t.Error("sitemap返回404应报错")
	}
}
