package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeaderShowsConnectivity(t *testing.T) {
	l := NewLayout(80, 24)

	online := l.RenderHeader("TaskFlow", true, 0)
	assert.Contains(t, online, "live")
	assert.NotContains(t, online, "offline")

	offline := l.RenderHeader("TaskFlow", false, 0)
	assert.Contains(t, offline, "offline")
}

func TestRenderHeaderShowsUnreadBadge(t *testing.T) {
	l := NewLayout(80, 24)

	assert.Contains(t, l.RenderHeader("TaskFlow", true, 3), "3")
	assert.NotContains(t, l.RenderHeader("TaskFlow", true, 0), "🔔")
}

func TestContentHeightAccountsForChrome(t *testing.T) {
	l := NewLayout(80, 24)
	assert.Equal(t, 22, l.ContentHeight())
	assert.Equal(t, 80, l.ContentWidth())
}

func TestRenderWithFrameStacksSections(t *testing.T) {
	l := NewLayout(80, 24)
	out := l.RenderWithFrame("header", "content", "statusbar")

	lines := strings.Split(out, "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, out, "header")
	assert.Contains(t, out, "content")
	assert.Contains(t, out, "statusbar")
}
