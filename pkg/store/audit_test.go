package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudash/edudash/pkg/types"
)

func TestStore_Audit(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh store is clean", func(t *testing.T) {
		store, _ := setupStore(t)

		report, err := store.Audit(ctx)
		require.NoError(t, err)
		assert.True(t, report.Clean())
		assert.False(t, report.CheckedAt.IsZero())
	})

	t.Run("registered users in existing courses are clean", func(t *testing.T) {
		store, course := setupCatalog(t)
		require.NoError(t, store.User.SetCurrent(ctx, &alice))
		_, err := store.Enrollment.Create(ctx, alice.ID, course.ID)
		require.NoError(t, err)

		report, err := store.Audit(ctx)
		require.NoError(t, err)
		assert.True(t, report.Clean())
	})

	t.Run("reports orphaned and unregistered enrollments", func(t *testing.T) {
		store, course := setupCatalog(t)
		require.NoError(t, store.User.SetCurrent(ctx, &alice))

		orphan, err := store.Enrollment.Create(ctx, alice.ID, course.ID)
		require.NoError(t, err)
		stranger, err := store.Enrollment.Create(ctx, "ghost", "no-such-course")
		require.NoError(t, err)

		_, err = store.Course.Delete(ctx, course.ID)
		require.NoError(t, err)

		report, err := store.Audit(ctx)
		require.NoError(t, err)
		assert.False(t, report.Clean())
		assert.Equal(t, []types.Enrollment{orphan, stranger}, report.OrphanedEnrollments)
		assert.Equal(t, []types.Enrollment{stranger}, report.UnregisteredEnrollments)

		after, err := store.Enrollment.List(ctx)
		require.NoError(t, err)
		assert.Len(t, after, 2, "audit does not repair")
	})
}
