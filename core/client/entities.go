package client

import "github.com/relabs-tech/todoapp/core/api"

// NewGoal creates a goal
func (c Client) NewGoal(props api.GoalNewProps) (api.GoalData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalData](c, "/public/goal/new", props)
}

// ViewGoals lists the goal rows of the caller matching props
func (c Client) ViewGoals(props api.GoalViewProps) ([]api.Goal, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.Goal](c, "/public/goal/view", props)
}

// NewGoalData creates a goal data
func (c Client) NewGoalData(props api.GoalDataNewProps) (api.GoalData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalData](c, "/public/goal_data/new", props)
}

// ViewGoalData lists the goal data rows of the caller matching props
func (c Client) ViewGoalData(props api.GoalDataViewProps) ([]api.GoalData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalData](c, "/public/goal_data/view", props)
}

// NewGoalEvent creates a goal event
func (c Client) NewGoalEvent(props api.GoalEventNewProps) (api.GoalEvent, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalEvent](c, "/public/goal_event/new", props)
}

// ViewGoalEvents lists the goal event rows of the caller matching props
func (c Client) ViewGoalEvents(props api.GoalEventViewProps) ([]api.GoalEvent, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalEvent](c, "/public/goal_event/view", props)
}

// NewGoalDependency creates a goal dependency
func (c Client) NewGoalDependency(props api.GoalDependencyNewProps) (api.GoalDependency, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalDependency](c, "/public/goal_dependency/new", props)
}

// ViewGoalDependencies lists the goal dependency rows of the caller matching props
func (c Client) ViewGoalDependencies(props api.GoalDependencyViewProps) ([]api.GoalDependency, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalDependency](c, "/public/goal_dependency/view", props)
}

// NewGoalEntityTag creates a goal entity tag
func (c Client) NewGoalEntityTag(props api.GoalEntityTagNewProps) (api.GoalEntityTag, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalEntityTag](c, "/public/goal_entity_tag/new", props)
}

// ViewGoalEntityTags lists the goal entity tag rows of the caller matching props
func (c Client) ViewGoalEntityTags(props api.GoalEntityTagViewProps) ([]api.GoalEntityTag, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalEntityTag](c, "/public/goal_entity_tag/view", props)
}

// NewGoalTemplate creates a goal template
func (c Client) NewGoalTemplate(props api.GoalTemplateNewProps) (api.GoalTemplateData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalTemplateData](c, "/public/goal_template/new", props)
}

// ViewGoalTemplates lists the goal template rows of the caller matching props
func (c Client) ViewGoalTemplates(props api.GoalTemplateViewProps) ([]api.GoalTemplate, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalTemplate](c, "/public/goal_template/view", props)
}

// NewGoalTemplateData creates a goal template data
func (c Client) NewGoalTemplateData(props api.GoalTemplateDataNewProps) (api.GoalTemplateData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalTemplateData](c, "/public/goal_template_data/new", props)
}

// ViewGoalTemplateData lists the goal template data rows of the caller matching props
func (c Client) ViewGoalTemplateData(props api.GoalTemplateDataViewProps) ([]api.GoalTemplateData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalTemplateData](c, "/public/goal_template_data/view", props)
}

// NewGoalTemplatePattern creates a goal template pattern
func (c Client) NewGoalTemplatePattern(props api.GoalTemplatePatternNewProps) (api.GoalTemplatePattern, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.GoalTemplatePattern](c, "/public/goal_template_pattern/new", props)
}

// ViewGoalTemplatePatterns lists the goal template pattern rows of the caller matching props
func (c Client) ViewGoalTemplatePatterns(props api.GoalTemplatePatternViewProps) ([]api.GoalTemplatePattern, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.GoalTemplatePattern](c, "/public/goal_template_pattern/view", props)
}

// NewNamedEntity creates a named entity
func (c Client) NewNamedEntity(props api.NamedEntityNewProps) (api.NamedEntityData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.NamedEntityData](c, "/public/named_entity/new", props)
}

// ViewNamedEntities lists the named entity rows of the caller matching props
func (c Client) ViewNamedEntities(props api.NamedEntityViewProps) ([]api.NamedEntity, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.NamedEntity](c, "/public/named_entity/view", props)
}

// NewNamedEntityData creates a named entity data
func (c Client) NewNamedEntityData(props api.NamedEntityDataNewProps) (api.NamedEntityData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.NamedEntityData](c, "/public/named_entity_data/new", props)
}

// ViewNamedEntityData lists the named entity data rows of the caller matching props
func (c Client) ViewNamedEntityData(props api.NamedEntityDataViewProps) ([]api.NamedEntityData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.NamedEntityData](c, "/public/named_entity_data/view", props)
}

// NewNamedEntityPattern creates a named entity pattern
func (c Client) NewNamedEntityPattern(props api.NamedEntityPatternNewProps) (api.NamedEntityPattern, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.NamedEntityPattern](c, "/public/named_entity_pattern/new", props)
}

// ViewNamedEntityPatterns lists the named entity pattern rows of the caller matching props
func (c Client) ViewNamedEntityPatterns(props api.NamedEntityPatternViewProps) ([]api.NamedEntityPattern, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.NamedEntityPattern](c, "/public/named_entity_pattern/view", props)
}

// NewTimeUtilityFunction creates a time utility function
func (c Client) NewTimeUtilityFunction(props api.TimeUtilityFunctionNewProps) (api.TimeUtilityFunction, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.TimeUtilityFunction](c, "/public/time_utility_function/new", props)
}

// ViewTimeUtilityFunctions lists the time utility function rows of the caller matching props
func (c Client) ViewTimeUtilityFunctions(props api.TimeUtilityFunctionViewProps) ([]api.TimeUtilityFunction, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.TimeUtilityFunction](c, "/public/time_utility_function/view", props)
}

// NewUserGeneratedCode creates a user generated code
func (c Client) NewUserGeneratedCode(props api.UserGeneratedCodeNewProps) (api.UserGeneratedCode, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.UserGeneratedCode](c, "/public/user_generated_code/new", props)
}

// ViewUserGeneratedCode lists the user generated code rows of the caller matching props
func (c Client) ViewUserGeneratedCode(props api.UserGeneratedCodeViewProps) ([]api.UserGeneratedCode, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.UserGeneratedCode](c, "/public/user_generated_code/view", props)
}

// NewExternalEvent creates a external event
func (c Client) NewExternalEvent(props api.ExternalEventNewProps) (api.ExternalEventData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.ExternalEventData](c, "/public/external_event/new", props)
}

// ViewExternalEvents lists the external event rows of the caller matching props
func (c Client) ViewExternalEvents(props api.ExternalEventViewProps) ([]api.ExternalEvent, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.ExternalEvent](c, "/public/external_event/view", props)
}

// NewExternalEventData creates a external event data
func (c Client) NewExternalEventData(props api.ExternalEventDataNewProps) (api.ExternalEventData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[api.ExternalEventData](c, "/public/external_event_data/new", props)
}

// ViewExternalEventData lists the external event data rows of the caller matching props
func (c Client) ViewExternalEventData(props api.ExternalEventDataViewProps) ([]api.ExternalEventData, error) {
	props.APIKey = c.key(props.APIKey)
	return call[[]api.ExternalEventData](c, "/public/external_event_data/view", props)
}

// ActiveGoalDependencies returns the dependencies of goalID which are
// currently in effect, that is whose most recent row is active
func (c Client) ActiveGoalDependencies(goalID int64) ([]api.GoalDependency, error) {
	active := true
	return c.ViewGoalDependencies(api.GoalDependencyViewProps{
		GoalDependencyFilter: api.GoalDependencyFilter{
			GoalID:     []int64{goalID},
			Active:     &active,
			OnlyRecent: true,
		},
	})
}

// ActiveGoalEntityTags returns the named entity tags of goalID which are
// currently in effect
func (c Client) ActiveGoalEntityTags(goalID int64) ([]api.GoalEntityTag, error) {
	active := true
	return c.ViewGoalEntityTags(api.GoalEntityTagViewProps{
		GoalEntityTagFilter: api.GoalEntityTagFilter{
			GoalID:     []int64{goalID},
			Active:     &active,
			OnlyRecent: true,
		},
	})
}
