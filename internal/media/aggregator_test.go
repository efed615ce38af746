package media

import (
	"testing"

	"github.com/RecoveryAshes/MediaCrawl/internal/models"
)

func ref(url string, slug string) models.MediaRef {
	return models.MediaRef{URL: url, Kind: models.MediaImage, Slug: slug}
}

func TestAggregateOwnership(t *testing.T) {
	tests := []struct {
		name       string
		refs       []models.MediaRef
		wantFolder string
	}{
		{
			name:       "单一归属",
			refs:       []models.MediaRef{ref("https://x.com/content/images/a.png", "a")},
			wantFolder: "a",
		},
		{
			name: "多篇文章共享",
			refs: []models.MediaRef{
				ref("https://x.com/content/images/a.png", "a"),
				ref("https://x.com/content/images/a.png", "b"),
			},
			wantFolder: models.FolderShared,
		},
		{
			name:       "首页独占",
			refs:       []models.MediaRef{ref("https://x.com/content/images/a.png", models.SlugHomepage)},
			wantFolder: models.SlugHomepage,
		},
		{
			name: "首页与文章共享",
			refs: []models.MediaRef{
				ref("https://x.com/content/images/a.png", models.SlugHomepage),
				ref("https://x.com/content/images/a.png", "a"),
			},
			wantFolder: models.FolderShared,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets := Aggregate(tt.refs)
			if len(targets) != 1 {
				t.Fatalf("期望1个目标, 得到 %d", len(targets))
			}
			if targets[0].Folder != tt.wantFolder {
				t.Errorf("目录 = %q, want %q", targets[0].Folder, tt.wantFolder)
			}
		})
	}
}

func TestAggregateOneTargetPerURL(t *testing.T) {
	refs := []models.MediaRef{
		ref("https://x.com/content/images/a.png", "a"),
		ref("https://x.com/content/images/a.png", "b"),
		ref("https://x.com/content/images/a.png", "c"),
		ref("https://x.com/content/images/b.png", "a"),
	}

	targets := Aggregate(refs)

	// 每个唯一URL恰好一个目标
	if len(targets) != 2 {
		t.Fatalf("期望2个目标, 得到 %d", len(targets))
	}

	byURL := make(map[string]models.DownloadTarget)
	for _, target := range targets {
		if _, dup := byURL[target.MediaURL]; dup {
			t.Errorf("URL出现了多个目标: %s", target.MediaURL)
		}
		byURL[target.MediaURL] = target
	}

	if byURL["https://x.com/content/images/a.png"].Folder != models.FolderShared {
		t.Error("三篇文章共享的媒体应归属_shared")
	}
	if byURL["https://x.com/content/images/b.png"].Folder != "a" {
		t.Error("独占媒体应归属其slug")
	}
}

func TestAggregateExactURLEquality(t *testing.T) {
	// 仅查询参数不同的URL按不同媒体处理,不做规范化
	refs := []models.MediaRef{
		ref("https://x.com/content/images/a.png", "a"),
		ref("https://x.com/content/images/a.png?v=2", "b"),
	}

	targets := Aggregate(refs)

	if len(targets) != 2 {
		t.Fatalf("期望2个目标(精确字符串相等), 得到 %d", len(targets))
	}
	for _, target := range targets {
		if target.Folder == models.FolderShared {
			t.Errorf("不同URL字符串不应判为共享: %+v", target)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	targets := Aggregate(nil)
	if len(targets) != 0 {
		t.Errorf("空输入应得到空输出, 得到 %d", len(targets))
	}
}

func TestCountShared(t *testing.T) {
	refs := []models.MediaRef{
		ref("https://x.com/content/images/a.png", "a"),
		ref("https://x.com/content/images/a.png", "b"),
		ref("https://x.com/content/images/b.png", "a"),
	}

	targets := Aggregate(refs)
	if got := CountShared(targets); got != 1 {
		t.Errorf("CountShared = %d, want 1", got)
	}
}
