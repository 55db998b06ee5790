package backend

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/store"
)

func validateTimeSpan(startTime, endTime int64) error {
	if startTime < 0 {
		return api.ErrNegativeStartTime
	}
	if startTime >= endTime {
		return api.ErrNegativeDuration
	}
	return nil
}

func validateDurationEstimate(duration *int64) error {
	if duration != nil && *duration <= 0 {
		return api.ErrNegativeDuration
	}
	return nil
}

func validateTimeUtilityFunction(startTimes, utils []int64) error {
	if len(startTimes) != len(utils) {
		return api.ErrTimeUtilityFunctionNotValid
	}
	return nil
}

// requireOwner returns kind if row does not exist or was created by somebody else
func requireOwner[T any](row *T, err error, creator func(T) int64, user api.User, kind api.ErrorKind) (*T, error) {
	if err != nil {
		return nil, err
	}
	if row == nil || creator(*row) != user.UserID {
		return nil, kind
	}
	return row, nil
}

func (t *writeTx) ownedGoal(ctx context.Context, user api.User, id int64) (*store.Goal, error) {
	row, err := t.GoalByID(ctx, id)
	return requireOwner(row, err, func(g store.Goal) int64 { return g.CreatorUserID }, user, api.ErrGoalNonexistent)
}

func (t *writeTx) ownedGoalTemplate(ctx context.Context, user api.User, id int64) (*store.GoalTemplate, error) {
	row, err := t.GoalTemplateByID(ctx, id)
	return requireOwner(row, err, func(g store.GoalTemplate) int64 { return g.CreatorUserID }, user, api.ErrGoalTemplateNonexistent)
}

func (t *writeTx) ownedNamedEntity(ctx context.Context, user api.User, id int64) (*store.NamedEntity, error) {
	row, err := t.NamedEntityByID(ctx, id)
	return requireOwner(row, err, func(n store.NamedEntity) int64 { return n.CreatorUserID }, user, api.ErrNamedEntityNonexistent)
}

func (t *writeTx) ownedExternalEvent(ctx context.Context, user api.User, id int64) (*store.ExternalEvent, error) {
	row, err := t.ExternalEventByID(ctx, id)
	return requireOwner(row, err, func(e store.ExternalEvent) int64 { return e.CreatorUserID }, user, api.ErrExternalEventNonexistent)
}

func (t *writeTx) ownedTimeUtilityFunction(ctx context.Context, user api.User, id int64) (*store.TimeUtilityFunction, error) {
	row, err := t.TimeUtilityFunctionByID(ctx, id)
	return requireOwner(row, err, func(f store.TimeUtilityFunction) int64 { return f.CreatorUserID }, user, api.ErrTimeUtilityFunctionNonexistent)
}

func (t *writeTx) ownedUserGeneratedCode(ctx context.Context, user api.User, id int64) (*store.UserGeneratedCode, error) {
	row, err := t.UserGeneratedCodeByID(ctx, id)
	return requireOwner(row, err, func(u store.UserGeneratedCode) int64 { return u.CreatorUserID }, user, api.ErrUserGeneratedCodeNonexistent)
}
