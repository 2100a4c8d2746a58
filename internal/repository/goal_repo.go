package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddGoal inserts a new goal
func (r *Repository) AddGoal(ctx context.Context, goal models.Goal) error {
	return add(ctx, r.h, store.Goals, goal)
}

// UpdateGoal replaces a goal
func (r *Repository) UpdateGoal(ctx context.Context, goal models.Goal) error {
	return put(ctx, r.h, store.Goals, goal)
}

// GetGoal retrieves a goal by ID
func (r *Repository) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	return get[models.Goal](ctx, r.h, store.Goals, id)
}

// GetGoalsByFamily retrieves all goals of a family
func (r *Repository) GetGoalsByFamily(ctx context.Context, familyID string) ([]models.Goal, error) {
	return byFamily[models.Goal](ctx, r.h, store.Goals, familyID)
}

// AddGoalTransfer inserts a new goal contribution
func (r *Repository) AddGoalTransfer(ctx context.Context, transfer models.GoalTransfer) error {
	return add(ctx, r.h, store.GoalTransfers, transfer)
}

// GetGoalTransfersByGoal retrieves the contributions to one goal
func (r *Repository) GetGoalTransfersByGoal(ctx context.Context, goalID string) ([]models.GoalTransfer, error) {
	return byIndex[models.GoalTransfer](ctx, r.h, store.GoalTransfers, "goal_id", goalID)
}

// GetGoalTransfersByFamily retrieves the contributions to every goal of a
// family. Transfers carry no family id, so this goes through the goals.
func (r *Repository) GetGoalTransfersByFamily(ctx context.Context, familyID string) ([]models.GoalTransfer, error) {
	goals, err := r.GetGoalsByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	var transfers []models.GoalTransfer
	for _, g := range goals {
		t, err := r.GetGoalTransfersByGoal(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t...)
	}
	return transfers, nil
}
