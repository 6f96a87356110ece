package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	a := RectMinSize(Pos2{}, Vec2{10, 10})
	b := RectMinSize(Pos2{5, 5}, Vec2{10, 10})
	got := a.Intersect(b)
	assert.Equal(t, Rect{Min: Pos2{5, 5}, Max: Pos2{10, 10}}, got)
	assert.False(t, got.IsEmpty())

	far := RectMinSize(Pos2{20, 20}, Vec2{5, 5})
	assert.True(t, a.Intersect(far).IsEmpty(), "disjoint rects intersect to empty")
}

func TestRectExpandInset(t *testing.T) {
	r := RectMinSize(Pos2{10, 10}, Vec2{4, 4})
	assert.Equal(t, Rect{Min: Pos2{9, 9}, Max: Pos2{15, 15}}, r.Expand(1))
	assert.True(t, r.Expand(-3).IsEmpty(), "inset past the center collapses")
}

func TestClampPinsToRange(t *testing.T) {
	assert.Equal(t, float32(0), clamp32(-2, 0, 1))
	assert.Equal(t, float32(1), clamp32(7, 0, 1))
	assert.Equal(t, float32(0.25), clamp32(0.25, 0, 1))
}
