package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/infra"
)

func TestMarkerClass(t *testing.T) {
	assert.Equal(t, "declutter-hide-shorts", MarkerClass(RegionShorts))
	assert.Equal(t, "declutter-hide-channelInfo", MarkerClass(RegionChannelInfo))
}

func TestToggles_SetAndActiveClasses(t *testing.T) {
	tg := NewToggles(nil, zap.NewNop())

	tg.Set(RegionShorts, true)
	tg.Set(RegionComments, true)
	tg.Set(RegionShorts, true) // idempotent

	assert.True(t, tg.Hidden(RegionShorts))
	assert.False(t, tg.Hidden(RegionHome))
	assert.Equal(t,
		[]string{"declutter-hide-comments", "declutter-hide-shorts"},
		tg.ActiveClasses())

	tg.Set(RegionShorts, false)
	assert.Equal(t, []string{"declutter-hide-comments"}, tg.ActiveClasses())
}

func TestToggles_PersistAndReload(t *testing.T) {
	store := infra.NewMemoryStore()

	tg := NewToggles(store, zap.NewNop())
	tg.Set(RegionSidebar, true)

	reloaded := NewToggles(store, zap.NewNop())
	assert.True(t, reloaded.Hidden(RegionSidebar))
	assert.False(t, reloaded.Hidden(RegionHome))
}

func TestRewriteShortsURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain shorts path", "/shorts/abc123", "/watch?v=abc123", true},
		{"full url", "https://example.com/shorts/abc123", "https://example.com/watch?v=abc123", true},
		{"with query", "/shorts/abc123?feature=share", "/watch?v=abc123", true},
		{"with fragment", "/shorts/abc123#top", "/watch?v=abc123", true},
		{"watch url untouched", "/watch?v=abc123", "", false},
		{"bare shorts path", "/shorts/", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RewriteShortsURL(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
