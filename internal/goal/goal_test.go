package goal_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
)

func TestNew(t *testing.T) {
	userID := uuid.New()
	nextYear := time.Now().AddDate(1, 0, 0)

	tests := []struct {
		name     string
		goalName string
		target   int64
		deadline time.Time
		kind     goal.Kind
		wantErr  bool
	}{
		{name: "Valid", goalName: "Emergency fund", target: 100000, deadline: nextYear, kind: goal.KindEmergencyFund},
		{name: "EmptyName", goalName: "  ", target: 100000, deadline: nextYear, kind: goal.KindSavings, wantErr: true},
		{name: "NonPositiveTarget", goalName: "Emergency fund", target: 0, deadline: nextYear, kind: goal.KindSavings, wantErr: true},
		{name: "PastDeadline", goalName: "Emergency fund", target: 100000, deadline: time.Now().Add(-time.Hour), kind: goal.KindSavings, wantErr: true},
		{name: "UnknownKind", goalName: "Emergency fund", target: 100000, deadline: nextYear, kind: goal.Kind("lottery"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := goal.New(userID, tt.goalName, tt.target, tt.deadline, tt.kind)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, goal.StatusActive, g.Status)
			assert.Zero(t, g.CurrentAmount)
		})
	}
}

// Reaching the target completes the goal; removing progress back below the
// target reverts it to active.
func TestGoal_CompletionToggling(t *testing.T) {
	g := newGoal(t, 100000)

	require.NoError(t, g.AddProgress(100000))
	assert.Equal(t, int64(100000), g.CurrentAmount)
	assert.Equal(t, goal.StatusCompleted, g.Status)

	// Completed goals accept no further contributions.
	assert.True(t, domain.IsState(g.AddProgress(5000)))

	require.NoError(t, g.RemoveProgress(20000))
	assert.Equal(t, int64(80000), g.CurrentAmount)
	assert.Equal(t, goal.StatusActive, g.Status)
}

func TestGoal_ProgressMayOvershootTarget(t *testing.T) {
	g := newGoal(t, 100000)

	require.NoError(t, g.AddProgress(130000))
	assert.Equal(t, int64(130000), g.CurrentAmount)
	assert.Equal(t, goal.StatusCompleted, g.Status)

	// Removing less than the overshoot keeps the goal completed.
	require.NoError(t, g.RemoveProgress(20000))
	assert.Equal(t, goal.StatusCompleted, g.Status)
}

func TestGoal_RemoveProgressClampsAtZero(t *testing.T) {
	g := newGoal(t, 100000)
	require.NoError(t, g.AddProgress(1000))

	require.NoError(t, g.RemoveProgress(5000))
	assert.Zero(t, g.CurrentAmount)
}

func TestGoal_ProgressGating(t *testing.T) {
	g := newGoal(t, 100000)
	require.NoError(t, g.Pause())

	// Contributions need an active goal; removal works on any non-cancelled
	// goal so reverting a transaction never leaves stale progress behind.
	assert.True(t, domain.IsState(g.AddProgress(1000)))
	require.NoError(t, g.RemoveProgress(1000))

	require.NoError(t, g.Resume())
	require.NoError(t, g.AddProgress(1000))

	assert.True(t, domain.IsValidation(g.AddProgress(0)))
	assert.True(t, domain.IsValidation(g.RemoveProgress(-5)))
	assert.True(t, domain.IsValidation(g.RestoreProgress(0)))
}

func TestGoal_RemoveProgressWhileOverdue(t *testing.T) {
	g := newGoal(t, 100000)
	require.NoError(t, g.AddProgress(30000))
	require.True(t, g.CheckOverdue(g.Deadline.Add(time.Minute)))

	require.NoError(t, g.RemoveProgress(30000))
	assert.Zero(t, g.CurrentAmount)
	assert.Equal(t, goal.StatusOverdue, g.Status)
}

func TestGoal_CancelledRejectsProgressChanges(t *testing.T) {
	g := newGoal(t, 100000)
	require.NoError(t, g.AddProgress(10000))
	require.NoError(t, g.Cancel())

	assert.True(t, domain.IsState(g.RemoveProgress(10000)))
	assert.True(t, domain.IsState(g.RestoreProgress(10000)))
	assert.Equal(t, int64(10000), g.CurrentAmount)
}

func TestGoal_RestoreProgress(t *testing.T) {
	t.Run("CompletedStaysCompleted", func(t *testing.T) {
		g := newGoal(t, 100000)
		require.NoError(t, g.AddProgress(160000))
		require.NoError(t, g.RemoveProgress(60000))
		require.Equal(t, goal.StatusCompleted, g.Status)

		require.NoError(t, g.RestoreProgress(60000))
		assert.Equal(t, int64(160000), g.CurrentAmount)
		assert.Equal(t, goal.StatusCompleted, g.Status)
	})

	t.Run("ActiveCrossingTargetCompletes", func(t *testing.T) {
		g := newGoal(t, 100000)
		require.NoError(t, g.AddProgress(60000))

		require.NoError(t, g.RestoreProgress(40000))
		assert.Equal(t, int64(100000), g.CurrentAmount)
		assert.Equal(t, goal.StatusCompleted, g.Status)
	})
}

func TestGoal_PauseResume(t *testing.T) {
	g := newGoal(t, 100000)

	require.NoError(t, g.Pause())
	assert.Equal(t, goal.StatusPaused, g.Status)
	assert.True(t, domain.IsState(g.Pause()))

	require.NoError(t, g.Resume())
	assert.Equal(t, goal.StatusActive, g.Status)
	assert.True(t, domain.IsState(g.Resume()))
}

func TestGoal_Cancel(t *testing.T) {
	t.Run("FromActive", func(t *testing.T) {
		g := newGoal(t, 100000)
		require.NoError(t, g.Cancel())
		assert.Equal(t, goal.StatusCancelled, g.Status)
		assert.True(t, domain.IsState(g.Cancel()))
	})

	t.Run("FromPaused", func(t *testing.T) {
		g := newGoal(t, 100000)
		require.NoError(t, g.Pause())
		require.NoError(t, g.Cancel())
		assert.Equal(t, goal.StatusCancelled, g.Status)
	})

	t.Run("CompletedRejects", func(t *testing.T) {
		g := newGoal(t, 100000)
		require.NoError(t, g.AddProgress(100000))
		assert.True(t, domain.IsState(g.Cancel()))
		assert.Equal(t, goal.StatusCompleted, g.Status)
	})
}

func TestGoal_CheckOverdue(t *testing.T) {
	g := newGoal(t, 100000)

	assert.False(t, g.CheckOverdue(g.Deadline.Add(-time.Minute)))
	assert.Equal(t, goal.StatusActive, g.Status)

	assert.True(t, g.CheckOverdue(g.Deadline.Add(time.Minute)))
	assert.Equal(t, goal.StatusOverdue, g.Status)

	// Already overdue: no further transition.
	assert.False(t, g.CheckOverdue(g.Deadline.Add(time.Hour)))

	t.Run("PausedIsNotOverdue", func(t *testing.T) {
		g := newGoal(t, 100000)
		require.NoError(t, g.Pause())
		assert.False(t, g.CheckOverdue(g.Deadline.Add(time.Minute)))
		assert.Equal(t, goal.StatusPaused, g.Status)
	})
}

func newGoal(t *testing.T, target int64) *goal.Goal {
	t.Helper()

	g, err := goal.New(uuid.New(), "Emergency fund", target, time.Now().AddDate(1, 0, 0), goal.KindEmergencyFund)
	require.NoError(t, err)

	return g
}
