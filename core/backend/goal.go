// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/store"
)

func (b *Backend) handleGoalRoutes() {
	handleNew(b, "goal", checkGoalNew, execGoalNew, (*filler).goalData)
	handleView(b, "goal",
		func(f *api.GoalFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoals,
		func(g store.Goal) int64 { return g.CreatorUserID },
		(*filler).goal)

	handleNew(b, "goal_data", checkGoalDataNew, execGoalDataNew, (*filler).goalData)
	handleView(b, "goal_data",
		func(f *api.GoalDataFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalData,
		func(gd store.GoalData) int64 { return gd.CreatorUserID },
		(*filler).goalData)

	handleNew(b, "goal_event", checkGoalEventNew, execGoalEventNew, (*filler).goalEvent)
	handleView(b, "goal_event",
		func(f *api.GoalEventFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalEvents,
		func(ge store.GoalEvent) int64 { return ge.CreatorUserID },
		(*filler).goalEvent)

	handleNew(b, "goal_dependency", noCheck[api.GoalDependencyNewProps], execGoalDependencyNew, (*filler).goalDependency)
	handleView(b, "goal_dependency",
		func(f *api.GoalDependencyFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalDependencies,
		func(gd store.GoalDependency) int64 { return gd.CreatorUserID },
		(*filler).goalDependency)

	handleNew(b, "goal_entity_tag", noCheck[api.GoalEntityTagNewProps], execGoalEntityTagNew, (*filler).goalEntityTag)
	handleView(b, "goal_entity_tag",
		func(f *api.GoalEntityTagFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalEntityTags,
		func(gt store.GoalEntityTag) int64 { return gt.CreatorUserID },
		(*filler).goalEntityTag)
}

func checkGoalNew(props *api.GoalNewProps) error {
	if props.TimeSpan != nil {
		if err := validateTimeSpan(props.TimeSpan.Start(), props.TimeSpan.End()); err != nil {
			return err
		}
	}
	return validateDurationEstimate(props.DurationEstimate)
}

// execGoalNew creates a goal with a pending first revision. A time span
// additionally schedules the goal with an active event.
func execGoalNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalNewProps) (store.GoalData, error) {
	if _, err := tx.ownedTimeUtilityFunction(ctx, user, props.TimeUtilityFunctionID); err != nil {
		return store.GoalData{}, err
	}

	goal, err := tx.AddGoal(ctx, user.UserID)
	if err != nil {
		return store.GoalData{}, err
	}
	if err = tx.notify(ctx, "goal", goal.GoalID, goal.CreatorUserID, goal.CreationTime); err != nil {
		return store.GoalData{}, err
	}

	goalData, err := tx.AddGoalData(ctx, user.UserID, goal.GoalID, props.Name, props.DurationEstimate,
		props.TimeUtilityFunctionID, api.GoalDataStatusPending)
	if err != nil {
		return store.GoalData{}, err
	}
	if err = tx.notify(ctx, "goal_data", goalData.GoalDataID, goalData.CreatorUserID, goalData.CreationTime); err != nil {
		return store.GoalData{}, err
	}

	if props.TimeSpan != nil {
		event, err := tx.AddGoalEvent(ctx, user.UserID, goal.GoalID, props.TimeSpan.Start(), props.TimeSpan.End(), true)
		if err != nil {
			return store.GoalData{}, err
		}
		if err = tx.notify(ctx, "goal_event", event.GoalEventID, event.CreatorUserID, event.CreationTime); err != nil {
			return store.GoalData{}, err
		}
	}
	return goalData, nil
}

func checkGoalDataNew(props *api.GoalDataNewProps) error {
	return validateDurationEstimate(props.DurationEstimate)
}

func execGoalDataNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalDataNewProps) (store.GoalData, error) {
	if _, err := tx.ownedTimeUtilityFunction(ctx, user, props.TimeUtilityFunctionID); err != nil {
		return store.GoalData{}, err
	}
	if _, err := tx.ownedGoal(ctx, user, props.GoalID); err != nil {
		return store.GoalData{}, err
	}
	goalData, err := tx.AddGoalData(ctx, user.UserID, props.GoalID, props.Name, props.DurationEstimate,
		props.TimeUtilityFunctionID, props.Status)
	if err != nil {
		return store.GoalData{}, err
	}
	return goalData, tx.notify(ctx, "goal_data", goalData.GoalDataID, goalData.CreatorUserID, goalData.CreationTime)
}

func checkGoalEventNew(props *api.GoalEventNewProps) error {
	return validateTimeSpan(props.StartTime, props.EndTime)
}

func execGoalEventNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalEventNewProps) (store.GoalEvent, error) {
	if _, err := tx.ownedGoal(ctx, user, props.GoalID); err != nil {
		return store.GoalEvent{}, err
	}
	event, err := tx.AddGoalEvent(ctx, user.UserID, props.GoalID, props.StartTime, props.EndTime, props.Active)
	if err != nil {
		return store.GoalEvent{}, err
	}
	return event, tx.notify(ctx, "goal_event", event.GoalEventID, event.CreatorUserID, event.CreationTime)
}

func execGoalDependencyNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalDependencyNewProps) (store.GoalDependency, error) {
	if _, err := tx.ownedGoal(ctx, user, props.GoalID); err != nil {
		return store.GoalDependency{}, err
	}
	if _, err := tx.ownedGoal(ctx, user, props.DependentGoalID); err != nil {
		return store.GoalDependency{}, err
	}
	dependency, err := tx.AddGoalDependency(ctx, user.UserID, props.GoalID, props.DependentGoalID, props.Active)
	if err != nil {
		return store.GoalDependency{}, err
	}
	return dependency, tx.notify(ctx, "goal_dependency", dependency.GoalDependencyID, dependency.CreatorUserID, dependency.CreationTime)
}

func execGoalEntityTagNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalEntityTagNewProps) (store.GoalEntityTag, error) {
	if _, err := tx.ownedGoal(ctx, user, props.GoalID); err != nil {
		return store.GoalEntityTag{}, err
	}
	if _, err := tx.ownedNamedEntity(ctx, user, props.NamedEntityID); err != nil {
		return store.GoalEntityTag{}, err
	}
	tag, err := tx.AddGoalEntityTag(ctx, user.UserID, props.NamedEntityID, props.GoalID, props.Active)
	if err != nil {
		return store.GoalEntityTag{}, err
	}
	return tag, tx.notify(ctx, "goal_entity_tag", tag.GoalEntityTagID, tag.CreatorUserID, tag.CreationTime)
}
