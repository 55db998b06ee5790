package backend

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/store"
)

func (b *Backend) handleGoalTemplateRoutes() {
	handleNew(b, "goal_template", checkGoalTemplateNew, execGoalTemplateNew, (*filler).goalTemplateData)
	handleView(b, "goal_template",
		func(f *api.GoalTemplateFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalTemplates,
		func(gt store.GoalTemplate) int64 { return gt.CreatorUserID },
		(*filler).goalTemplate)

	handleNew(b, "goal_template_data", checkGoalTemplateDataNew, execGoalTemplateDataNew, (*filler).goalTemplateData)
	handleView(b, "goal_template_data",
		func(f *api.GoalTemplateDataFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalTemplateData,
		func(gtd store.GoalTemplateData) int64 { return gtd.CreatorUserID },
		(*filler).goalTemplateData)

	handleNew(b, "goal_template_pattern", noCheck[api.GoalTemplatePatternNewProps], execGoalTemplatePatternNew, (*filler).goalTemplatePattern)
	handleView(b, "goal_template_pattern",
		func(f *api.GoalTemplatePatternFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryGoalTemplatePatterns,
		func(gtp store.GoalTemplatePattern) int64 { return gtp.CreatorUserID },
		(*filler).goalTemplatePattern)
}

func checkGoalTemplateNew(props *api.GoalTemplateNewProps) error {
	return validateDurationEstimate(props.DurationEstimate)
}

// execGoalTemplateNew creates a goal template with an active first revision
func execGoalTemplateNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalTemplateNewProps) (store.GoalTemplateData, error) {
	if _, err := tx.ownedUserGeneratedCode(ctx, user, props.UserGeneratedCodeID); err != nil {
		return store.GoalTemplateData{}, err
	}

	template, err := tx.AddGoalTemplate(ctx, user.UserID)
	if err != nil {
		return store.GoalTemplateData{}, err
	}
	if err = tx.notify(ctx, "goal_template", template.GoalTemplateID, template.CreatorUserID, template.CreationTime); err != nil {
		return store.GoalTemplateData{}, err
	}

	data, err := tx.AddGoalTemplateData(ctx, user.UserID, template.GoalTemplateID, props.Name, props.Utility,
		props.DurationEstimate, props.UserGeneratedCodeID, true)
	if err != nil {
		return store.GoalTemplateData{}, err
	}
	return data, tx.notify(ctx, "goal_template_data", data.GoalTemplateDataID, data.CreatorUserID, data.CreationTime)
}

func checkGoalTemplateDataNew(props *api.GoalTemplateDataNewProps) error {
	return validateDurationEstimate(props.DurationEstimate)
}

func execGoalTemplateDataNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalTemplateDataNewProps) (store.GoalTemplateData, error) {
	if _, err := tx.ownedUserGeneratedCode(ctx, user, props.UserGeneratedCodeID); err != nil {
		return store.GoalTemplateData{}, err
	}
	if _, err := tx.ownedGoalTemplate(ctx, user, props.GoalTemplateID); err != nil {
		return store.GoalTemplateData{}, err
	}
	data, err := tx.AddGoalTemplateData(ctx, user.UserID, props.GoalTemplateID, props.Name, props.Utility,
		props.DurationEstimate, props.UserGeneratedCodeID, props.Active)
	if err != nil {
		return store.GoalTemplateData{}, err
	}
	return data, tx.notify(ctx, "goal_template_data", data.GoalTemplateDataID, data.CreatorUserID, data.CreationTime)
}

func execGoalTemplatePatternNew(ctx context.Context, tx *writeTx, user api.User, props *api.GoalTemplatePatternNewProps) (store.GoalTemplatePattern, error) {
	if _, err := tx.ownedGoalTemplate(ctx, user, props.GoalTemplateID); err != nil {
		return store.GoalTemplatePattern{}, err
	}
	pattern, err := tx.AddGoalTemplatePattern(ctx, user.UserID, props.GoalTemplateID, props.Pattern, props.Active)
	if err != nil {
		return store.GoalTemplatePattern{}, err
	}
	return pattern, tx.notify(ctx, "goal_template_pattern", pattern.GoalTemplatePatternID, pattern.CreatorUserID, pattern.CreationTime)
}
