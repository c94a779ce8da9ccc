package plans

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.seed(newPlan("talk", f.alice, 0, gathering(day(1), f.alice)))

	now := today.Add(9 * time.Hour)
	f.svc.now = func() time.Time { return now }

	first, err := f.svc.AddComment(ctx, plan.ID, f.bob.ID, "count me in")
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, first.Author.ID)
	assert.Equal(t, "count me in", first.Comment)
	assert.Equal(t, now, first.CreatedAt)

	now = now.Add(time.Minute)
	second, err := f.svc.AddComment(ctx, plan.ID, f.alice.ID, "great")
	require.NoError(t, err)

	t.Run("listed oldest first", func(t *testing.T) {
		views, err := f.svc.Comments(ctx, plan.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, first.ID, views[0].ID)
		assert.Equal(t, second.ID, views[1].ID)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, plan.ID, f.bob.ID, " \n")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.EditComment(ctx, first.ID, f.bob.ID, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, uuid.New(), f.bob.ID, "hello?")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.svc.Comments(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("edit by author", func(t *testing.T) {
		now = now.Add(time.Hour)
		edited, err := f.svc.EditComment(ctx, first.ID, f.bob.ID, "count me in, +1")
		require.NoError(t, err)
		assert.Equal(t, "count me in, +1", edited.Comment)
		assert.Equal(t, first.CreatedAt, edited.CreatedAt)
		assert.Equal(t, now, edited.UpdatedAt)
	})

	t.Run("edit and delete by someone else", func(t *testing.T) {
		_, err := f.svc.EditComment(ctx, first.ID, f.alice.ID, "hijacked")
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, f.svc.DeleteComment(ctx, first.ID, f.alice.ID), ErrForbidden)
	})

	t.Run("delete by author", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteComment(ctx, first.ID, f.bob.ID))
		assert.ErrorIs(t, f.svc.DeleteComment(ctx, first.ID, f.bob.ID), ErrNotFound)
		views, err := f.svc.Comments(ctx, plan.ID)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})
}
