package paginate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCount(n int64) CountFunc {
	return func(context.Context) (int64, error) { return n, nil }
}

func TestMergeStartsFresh(t *testing.T) {
	page, err := Merge[string](context.Background(), nil, []string{"a", "b"}, 1, fixedCount(10), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, page.Results)
	assert.Equal(t, int64(10), page.TotalDocs)
	assert.Equal(t, 1, page.Page)
	assert.Zero(t, page.DeletedDocCount)
}

func TestMergeAppendsBatches(t *testing.T) {
	ctx := context.Background()
	page, err := Merge[int](ctx, nil, []int{1, 2, 3}, 1, fixedCount(7), false)
	require.NoError(t, err)

	page, err = Merge(ctx, page, []int{4, 5, 6}, 2, fixedCount(7), false)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, page.Results)
	assert.Equal(t, 2, page.Page)
	assert.True(t, page.HasMore())

	page, err = Merge(ctx, page, []int{7}, 3, fixedCount(7), false)
	require.NoError(t, err)
	assert.False(t, page.HasMore())
}

func TestMergeReplaceDiscardsAccumulation(t *testing.T) {
	ctx := context.Background()
	page, err := Merge[int](ctx, nil, []int{1, 2}, 1, fixedCount(4), false)
	require.NoError(t, err)
	page.RemoveAt(0)

	page, err = Merge(ctx, page, []int{9}, 1, fixedCount(4), true)
	require.NoError(t, err)

	assert.Equal(t, []int{9}, page.Results)
	assert.Zero(t, page.DeletedDocCount, "replace resets the deletion correction")
}

func TestMergeRefreshesTotal(t *testing.T) {
	ctx := context.Background()
	page, err := Merge[int](ctx, nil, []int{1, 2}, 1, fixedCount(9), false)
	require.NoError(t, err)

	// Another client deleted documents between requests.
	page, err = Merge(ctx, page, []int{3}, 2, fixedCount(3), false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalDocs)
	assert.False(t, page.HasMore())
}

func TestMergeCountError(t *testing.T) {
	boom := errors.New("count failed")
	_, err := Merge[int](context.Background(), nil, []int{1}, 1, func(context.Context) (int64, error) {
		return 0, boom
	}, false)
	assert.ErrorIs(t, err, boom)
}

func TestNextSkipCompensatesForDeletions(t *testing.T) {
	ctx := context.Background()
	page, err := Merge[int](ctx, nil, []int{1, 2, 3, 4, 5}, 1, fixedCount(12), false)
	require.NoError(t, err)
	assert.Equal(t, 5, page.NextSkip(5))

	page.RemoveAt(1)
	page.RemoveAt(1)
	assert.Equal(t, []int{1, 4, 5}, page.Results)
	assert.Equal(t, int64(10), page.TotalDocs)
	assert.Equal(t, 3, page.NextSkip(5), "deleted documents shift the next offset back")

	// The correction survives the next merge.
	page, err = Merge(ctx, page, []int{6, 7, 8}, 2, fixedCount(10), false)
	require.NoError(t, err)
	assert.Equal(t, 8, page.NextSkip(5))
}

func TestNextSkipNeverNegative(t *testing.T) {
	page := &Page[int]{Page: 1, DeletedDocCount: 9}
	assert.Zero(t, page.NextSkip(5))
}

func TestRemoveAtIgnoresBadIndex(t *testing.T) {
	page := &Page[int]{Results: []int{1}, TotalDocs: 1}
	page.RemoveAt(-1)
	page.RemoveAt(1)
	assert.Equal(t, []int{1}, page.Results)
	assert.Equal(t, int64(1), page.TotalDocs)
}

func TestHasMoreNilPage(t *testing.T) {
	var page *Page[int]
	assert.False(t, page.HasMore())
}
