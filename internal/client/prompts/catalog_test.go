package prompts

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCatalog() *Catalog {
	c := NewCatalog(Samples(fixedNow))
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestList_NewestFirst(t *testing.T) {
	c := newTestCatalog()

	got := c.List("")
	require.Len(t, got, 4)
	ids := []int64{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []int64{4, 1, 2, 3}, ids)
}

func TestList_CategoryFilterIgnoresCase(t *testing.T) {
	c := newTestCatalog()

	got := c.List("Engineering")
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "engineering", p.Category)
	}
	assert.Empty(t, c.List("nope"))
}

func TestGet(t *testing.T) {
	c := newTestCatalog()

	p, err := c.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Meeting summary", p.Title)
	assert.Equal(t, ContentHash(p.Content), p.ContentHash)

	_, err = c.Get(99)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := newTestCatalog()

	p, _ := c.Get(1)
	p.Tags[0] = "changed"

	again, _ := c.Get(1)
	assert.Equal(t, "code", again.Tags[0])
}

func TestAdd(t *testing.T) {
	c := newTestCatalog()

	p, err := c.Add(models.Prompt{Title: "  Translator ", Category: "language", Content: "Translate {{text}} to French"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, p.ID)
	assert.Equal(t, "Translator", p.Title)
	assert.Equal(t, fixedNow, p.UpdatedAt)
	assert.Len(t, p.ContentHash, 64)

	stored, err := c.Get(5)
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}

func TestAdd_Validation(t *testing.T) {
	long := make([]rune, 201)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		in   models.Prompt
		want error
	}{
		{"no title", models.Prompt{Content: "x"}, ErrTitleRequired},
		{"blank title", models.Prompt{Title: "  ", Content: "x"}, ErrTitleRequired},
		{"long title", models.Prompt{Title: string(long), Content: "x"}, ErrTitleTooLong},
		{"long category", models.Prompt{Title: "t", Category: string(long[:51]), Content: "x"}, ErrCategoryTooLong},
		{"no content", models.Prompt{Title: "t", Content: " \n"}, ErrContentRequired},
		{"duplicate content", models.Prompt{Title: "copy", Content: Samples(fixedNow)[2].Content + "\n"}, ErrDuplicate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestCatalog().Add(tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUseAndSummary(t *testing.T) {
	c := newTestCatalog()

	for i := 0; i < 30; i++ {
		require.NoError(t, c.Use(2))
	}
	require.ErrorIs(t, c.Use(99), common.ErrorNotFound)

	s := c.Summary(2)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Drafts)
	assert.Equal(t, []string{"engineering", "marketing", "productivity"}, s.Categories)
	require.Len(t, s.MostUsed, 2)
	assert.EqualValues(t, 2, s.MostUsed[0].ID)
	assert.EqualValues(t, 1, s.MostUsed[1].ID)

	assert.Len(t, c.Summary(10).MostUsed, 4)
}
