package browser

import (
	"testing"

	"github.com/chromedp/cdproto/target"
	"github.com/stretchr/testify/assert"
)

func pageInfo(id, opener target.ID) *target.Info {
	return &target.Info{TargetID: id, Type: "page", OpenerID: opener}
}

func TestPickNewestTarget(t *testing.T) {
	current := target.ID("current")

	tests := []struct {
		name     string
		infos    []*target.Info
		expected target.ID
	}{
		{
			name: "popup opened by the current tab wins",
			infos: []*target.Info{
				pageInfo("current", ""),
				pageInfo("unrelated", ""),
				pageInfo("popup", current),
			},
			expected: "popup",
		},
		{
			name: "opener match wins regardless of listing order",
			infos: []*target.Info{
				pageInfo("popup", current),
				pageInfo("unrelated", ""),
				pageInfo("current", ""),
			},
			expected: "popup",
		},
		{
			name: "no opener match falls back to last non-current page",
			infos: []*target.Info{
				pageInfo("current", ""),
				pageInfo("first", ""),
				pageInfo("second", ""),
			},
			expected: "second",
		},
		{
			name: "non-page targets are ignored",
			infos: []*target.Info{
				pageInfo("current", ""),
				{TargetID: "worker", Type: "service_worker", OpenerID: current},
			},
			expected: "",
		},
		{
			name: "only the current tab open",
			infos: []*target.Info{
				pageInfo("current", ""),
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pickNewestTarget(tt.infos, current))
		})
	}
}
