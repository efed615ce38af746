package media

import "testing"

func TestResolveSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"根路径", "https://x.com/", "_homepage"},
		{"无路径", "https://x.com", "_homepage"},
		{"单段路径", "https://x.com/post-1", "post-1"},
		{"单段路径带末尾斜杠", "https://produktiv.me/artikel-name/", "artikel-name"},
		{"多段路径取最后一段", "https://x.com/tag/post-1", "post-1"},
		{"多段路径带末尾斜杠", "https://produktiv.me/category/artikel-name/", "artikel-name"},
		{"查询参数不参与分段", "https://x.com/post-1?ref=home", "post-1"},
		{"根路径带查询参数", "https://x.com/?ref=home", "_homepage"},
		{"多个斜杠的空段", "https://x.com//post-1//", "post-1"},
		{"畸形URL退化处理", "https://x.com/%zz/post-1", "post-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSlug(tt.url)
			if got != tt.want {
				t.Errorf("ResolveSlug(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveSlugDeterministic(t *testing.T) {
	// 同一URL的两次解析必须得到相同结果
	urls := []string{
		"https://x.com/",
		"https://x.com/post-1",
		"https://x.com/tag/post-1",
		"not a url at all",
		"",
	}

	for _, u := range urls {
		first := ResolveSlug(u)
		second := ResolveSlug(u)
		if first != second {
			t.Errorf("ResolveSlug(%q) 不确定: 第一次 %q, 第二次 %q", u, first, second)
		}
	}
}

func TestResolveSlugNeverEmpty(t *testing.T) {
	// 任何输入都不应得到空slug
	urls := []string{"", "https://x.com", "///", "?a=b", "ftp://x/y"}

	for _, u := range urls {
		if got := ResolveSlug(u); got == "" {
			t.Errorf("ResolveSlug(%q) 返回了空slug", u)
		}
	}
}
