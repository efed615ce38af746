package models

import (
	"testing"
)

func TestCliHeadersParse(t *testing.T) {
	tests := []struct {
		name    string
		input   CliHeaders
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "标准头部",
			input: CliHeaders{"Cookie: session=abc123", "Authorization: Bearer token"},
			want:  map[string]string{"Cookie": "session=abc123", "Authorization": "Bearer token"},
		},
		{
			name:  "值里包含冒号",
			input: CliHeaders{"Referer: https://blog.example.com/"},
			want:  map[string]string{"Referer": "https://blog.example.com/"},
		},
		{
			name:  "名称和值两侧的空白被去除",
			input: CliHeaders{"  X-Custom  :  value  "},
			want:  map[string]string{"X-Custom": "value"},
		},
		{
			name:  "空列表",
			input: CliHeaders{},
			want:  map[string]string{},
		},
		{
			name:    "缺少冒号",
			input:   CliHeaders{"NoColonHere"},
			wantErr: true,
		},
		{
			name:    "头部名称为空",
			input:   CliHeaders{": value"},
			wantErr: true,
		},
		{
			name:    "头部值为空",
			input:   CliHeaders{"X-Custom:"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("错误 = %v, 期望出错 = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("头部数量不一致: 期望 %d, 得到 %d", len(tt.want), len(got))
			}
			for name, value := range tt.want {
				if got.Get(name) != value {
					t.Errorf("头部 %s = %q, 期望 %q", name, got.Get(name), value)
				}
			}
		})
	}
}
