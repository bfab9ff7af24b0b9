// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"reflect"
	"testing"

	"github.com/pdiddy/research-assistant/pkg/types"
)

var m Markers

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"cjk marker", "我已经了解了你的需求。【搜索就绪】", true},
		{"latin marker", "All set. 【READY】 summary follows", true},
		{"both absent", "could you tell me more about the project?", false},
		{"partial marker text", "ready to help", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Ready(tt.response); got != tt.want {
				t.Errorf("Ready(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestNeedsRepair(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"needs improvement", "报告遗漏了消融实验，需要改进。", true},
		{"redo", "结构混乱，建议返工。", true},
		{"passes", "质量合格", false},
		{"english only", "the report needs improvement", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.NeedsRepair(tt.response); got != tt.want {
				t.Errorf("NeedsRepair(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestUpdates(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     map[string]string
	}{
		{
			name:     "closed block with mixed colons",
			response: "Got it!\n【更新】goal: paper summarizer\n场景：research teams\n【/更新】thanks",
			want:     map[string]string{"goal": "paper summarizer", "场景": "research teams"},
		},
		{
			name:     "unclosed block runs to end",
			response: "【更新】goal: chat search",
			want:     map[string]string{"goal": "chat search"},
		},
		{
			name:     "malformed lines skipped",
			response: "【更新】\nnonsense line\n: empty key\ngoal: ok\n【/更新】",
			want:     map[string]string{"goal": "ok"},
		},
		{
			name:     "no block",
			response: "what domain are you in?",
			want:     map[string]string{},
		},
		{
			name:     "later value wins",
			response: "【更新】goal: a\ngoal: b【/更新】",
			want:     map[string]string{"goal": "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Updates(tt.response); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Updates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdatesIdempotent(t *testing.T) {
	response := "【更新】goal: summarizer\nscope: arxiv【/更新】"
	profile := map[string]string{}
	for i := 0; i < 2; i++ {
		for k, v := range m.Updates(response) {
			profile[k] = v
		}
	}
	want := map[string]string{"goal": "summarizer", "scope": "arxiv"}
	if !reflect.DeepEqual(profile, want) {
		t.Errorf("profile after double apply = %v, want %v", profile, want)
	}
}

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "removes closed update block",
			response: "Noted.【更新】k: v【/更新】 Next question?",
			want:     "Noted. Next question?",
		},
		{
			name:     "removes unclosed update block to end",
			response: "Noted.【更新】k: v",
			want:     "Noted.",
		},
		{
			name:     "removes ready markers",
			response: "【搜索就绪】Summary: done 【READY】",
			want:     "Summary: done",
		},
		{
			name:     "plain text untouched",
			response: "  tell me more  ",
			want:     "tell me more",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.StripMarkers(tt.response); got != tt.want {
				t.Errorf("StripMarkers() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterIndices(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     []int
	}{
		{
			name:     "cjk cue line",
			response: "匹配结果: [1], [3]\n[9] 无关",
			n:        5,
			want:     []int{0, 2},
		},
		{
			name:     "english cue line",
			response: "Relevant: [2] strong method match",
			n:        5,
			want:     []int{1},
		},
		{
			name:     "out of range ignored",
			response: "推荐 [1] [7] [0]",
			n:        3,
			want:     []int{0},
		},
		{
			name:     "uncued lines ignored",
			response: "[1] [2] [3]",
			n:        3,
			want:     nil,
		},
		{
			name:     "duplicates collapsed",
			response: "匹配 [2] [2] 相关 [2]",
			n:        3,
			want:     []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.FilterIndices(tt.response, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterIndices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategyDefaults(t *testing.T) {
	got := m.Strategy("I could not determine anything useful.")
	want := types.DefaultStrategy()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Strategy() = %+v, want documented defaults %+v", got, want)
	}
}

func TestStrategyParsing(t *testing.T) {
	response := `Here is the plan:
1. 搜索关键词: "paper summarization", document summarization LLM，scientific summarization
2. 时间范围: past_3months
3. 目标数量: 约30篇`

	got := m.Strategy(response)

	wantKeywords := []string{"paper summarization", "document summarization LLM", "scientific summarization"}
	if !reflect.DeepEqual(got.Keywords, wantKeywords) {
		t.Errorf("Keywords = %v, want %v", got.Keywords, wantKeywords)
	}
	if got.TimeRange != types.RangePast3Month {
		t.Errorf("TimeRange = %q, want past_3months", got.TimeRange)
	}
	if got.TargetCount != 30 {
		t.Errorf("TargetCount = %d, want 30", got.TargetCount)
	}
	if !reflect.DeepEqual(got.Sources, types.AllSources()) {
		t.Errorf("Sources = %v, want all sources", got.Sources)
	}
}

func TestStrategyUnparseableFieldsKeepDefaults(t *testing.T) {
	response := "Keywords: \nTime range: sometime soon\nTarget count: many"
	got := m.Strategy(response)
	want := types.DefaultStrategy()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Strategy() = %+v, want %+v", got, want)
	}
}
