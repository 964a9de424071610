package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawforum/internal/models"
)

func TestSnippet(t *testing.T) {
	t.Run("short content returned whole", func(t *testing.T) {
		got := snippet("a short body", "short")
		assert.Equal(t, "a short body", got)
	})

	t.Run("window around match", func(t *testing.T) {
		content := strings.Repeat("a", 100) + "NEEDLE" + strings.Repeat("b", 100)
		got := snippet(content, "needle")
		assert.True(t, strings.HasPrefix(got, "..."))
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Contains(t, got, "NEEDLE")
		assert.Contains(t, got, strings.Repeat("a", 50)+"NEEDLE"+strings.Repeat("b", 50))
	})

	t.Run("match at start has no leading ellipsis", func(t *testing.T) {
		content := "needle" + strings.Repeat("x", 200)
		got := snippet(content, "needle")
		assert.True(t, strings.HasPrefix(got, "needle"))
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("no match in long content truncates head", func(t *testing.T) {
		content := strings.Repeat("слово ", 40)
		got := snippet(content, "zzz")
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Equal(t, 100, len([]rune(strings.TrimSuffix(got, "..."))))
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		content := strings.Repeat("ж", 80) + "игла" + strings.Repeat("ю", 80)
		got := snippet(content, "игла")
		assert.Contains(t, got, "игла")
		for _, r := range got {
			assert.NotEqual(t, rune(0xFFFD), r)
		}
	})
}

func TestBuildReplyTree(t *testing.T) {
	id := func(v int64) *int64 { return &v }

	flat := []models.Reply{
		{ID: 1, Content: "root one"},
		{ID: 2, ParentID: id(1), Content: "child of one"},
		{ID: 3, Content: "root two"},
		{ID: 4, ParentID: id(2), Content: "grandchild"},
		{ID: 5, ParentID: id(1), Content: "second child of one"},
	}

	tree := buildReplyTree(flat)
	require.Len(t, tree, 2)
	assert.Equal(t, int64(1), tree[0].ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, int64(2), tree[0].Children[0].ID)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, int64(4), tree[0].Children[0].Children[0].ID)
	assert.Equal(t, int64(5), tree[0].Children[1].ID)
	assert.Empty(t, tree[1].Children)
}

func TestBuildReplyTreeOrphanBecomesRoot(t *testing.T) {
	missing := int64(99)
	flat := []models.Reply{
		{ID: 1, Content: "root"},
		{ID: 2, ParentID: &missing, Content: "orphan"},
	}

	tree := buildReplyTree(flat)
	require.Len(t, tree, 2)
	assert.Equal(t, "orphan", tree[1].Content)
}

func TestBuildReplyTreeEmpty(t *testing.T) {
	assert.Empty(t, buildReplyTree(nil))
}
