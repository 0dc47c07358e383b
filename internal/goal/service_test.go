package goal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().CreateGoal(gomock.Any(), gomock.Any()).Return(nil)

		svc := goal.NewService(repo)

		g, err := svc.Create(context.Background(), userID, goal.CreateParams{
			Name:         "New laptop",
			TargetAmount: 150000,
			Deadline:     time.Now().AddDate(0, 6, 0),
			Kind:         goal.KindPurchase,
		})
		require.NoError(t, err)
		assert.Equal(t, goal.StatusActive, g.Status)
		assert.Zero(t, g.CurrentAmount)
	})

	t.Run("PastDeadline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := goal.NewService(goal.NewMockRepository(ctrl))

		_, err := svc.Create(context.Background(), userID, goal.CreateParams{
			Name:         "New laptop",
			TargetAmount: 150000,
			Deadline:     time.Now().AddDate(0, -1, 0),
			Kind:         goal.KindPurchase,
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestService_Get(t *testing.T) {
	userID := uuid.New()

	t.Run("WrongOwner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g, err := goal.New(uuid.New(), "Trip to Kyoto", 400000, time.Now().AddDate(1, 0, 0), goal.KindTravel)
		require.NoError(t, err)

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().GetGoal(gomock.Any(), g.ID).Return(g, nil)

		svc := goal.NewService(repo)

		_, err = svc.Get(context.Background(), g.ID, userID)
		assert.ErrorIs(t, err, goal.ErrNotFound)
	})

	t.Run("PersistsOverdueTransition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g, err := goal.New(userID, "Trip to Kyoto", 400000, time.Now().Add(time.Millisecond), goal.KindTravel)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().GetGoal(gomock.Any(), g.ID).Return(g, nil)
		repo.EXPECT().UpdateGoal(gomock.Any(), g).Return(nil)

		svc := goal.NewService(repo)

		got, err := svc.Get(context.Background(), g.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, goal.StatusOverdue, got.Status)
	})
}

func TestService_Transitions(t *testing.T) {
	userID := uuid.New()

	newActiveGoal := func(t *testing.T) *goal.Goal {
		t.Helper()

		g, err := goal.New(userID, "Emergency fund", 600000, time.Now().AddDate(1, 0, 0), goal.KindEmergencyFund)
		require.NoError(t, err)

		return g
	}

	t.Run("PauseThenResume", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := newActiveGoal(t)

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().GetGoal(gomock.Any(), g.ID).Return(g, nil).Times(2)
		repo.EXPECT().UpdateGoal(gomock.Any(), g).Return(nil).Times(2)

		svc := goal.NewService(repo)

		require.NoError(t, svc.Pause(context.Background(), g.ID, userID))
		assert.Equal(t, goal.StatusPaused, g.Status)

		require.NoError(t, svc.Resume(context.Background(), g.ID, userID))
		assert.Equal(t, goal.StatusActive, g.Status)
	})

	t.Run("CancelCompletedRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := newActiveGoal(t)
		require.NoError(t, g.AddProgress(600000))
		require.Equal(t, goal.StatusCompleted, g.Status)

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().GetGoal(gomock.Any(), g.ID).Return(g, nil)

		svc := goal.NewService(repo)

		err := svc.Cancel(context.Background(), g.ID, userID)
		require.Error(t, err)
		assert.True(t, domain.IsState(err))
	})
}
