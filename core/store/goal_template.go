package store

import (
	"context"
	"database/sql"

	"github.com/relabs-tech/todoapp/core/api"
)

// GoalTemplate is the identity of a goal template
type GoalTemplate struct {
	GoalTemplateID int64
	CreationTime   int64
	CreatorUserID  int64
}

// GoalTemplateData is one revision of a goal template
type GoalTemplateData struct {
	GoalTemplateDataID  int64
	CreationTime        int64
	CreatorUserID       int64
	GoalTemplateID      int64
	Name                string
	Utility             int64
	DurationEstimate    *int64
	UserGeneratedCodeID int64
	Active              bool
}

// GoalTemplatePattern attaches a pattern to a goal template
type GoalTemplatePattern struct {
	GoalTemplatePatternID int64
	CreationTime          int64
	CreatorUserID         int64
	GoalTemplateID        int64
	Pattern               string
	Active                bool
}

var (
	goalTemplateTable = table{name: "goal_template", alias: "gtm", columns: []string{
		"goal_template_id", "creation_time", "creator_user_id"}}
	goalTemplateDataTable = table{name: "goal_template_data", alias: "gtd", columns: []string{
		"goal_template_data_id", "creation_time", "creator_user_id", "goal_template_id", "name",
		"utility", "duration_estimate", "user_generated_code_id", "active"}}
	goalTemplatePatternTable = table{name: "goal_template_pattern", alias: "gtp", columns: []string{
		"goal_template_pattern_id", "creation_time", "creator_user_id", "goal_template_id", "pattern", "active"}}
)

func scanGoalTemplate(s scanner) (GoalTemplate, error) {
	var t GoalTemplate
	err := s.Scan(&t.GoalTemplateID, &t.CreationTime, &t.CreatorUserID)
	return t, err
}

func scanGoalTemplateData(s scanner) (GoalTemplateData, error) {
	var (
		d        GoalTemplateData
		duration sql.NullInt64
	)
	err := s.Scan(&d.GoalTemplateDataID, &d.CreationTime, &d.CreatorUserID, &d.GoalTemplateID,
		&d.Name, &d.Utility, &duration, &d.UserGeneratedCodeID, &d.Active)
	d.DurationEstimate = nullInt64(duration)
	return d, err
}

func scanGoalTemplatePattern(s scanner) (GoalTemplatePattern, error) {
	var p GoalTemplatePattern
	err := s.Scan(&p.GoalTemplatePatternID, &p.CreationTime, &p.CreatorUserID, &p.GoalTemplateID,
		&p.Pattern, &p.Active)
	return p, err
}

// AddGoalTemplate creates a goal template
func (c *Conn) AddGoalTemplate(ctx context.Context, creatorUserID int64) (GoalTemplate, error) {
	t := GoalTemplate{CreationTime: c.now(), CreatorUserID: creatorUserID}
	id, err := c.insert(ctx, goalTemplateTable, t.CreationTime, t.CreatorUserID)
	t.GoalTemplateID = id
	return t, err
}

// GoalTemplateByID returns the goal template with id, or nil
func (c *Conn) GoalTemplateByID(ctx context.Context, id int64) (*GoalTemplate, error) {
	return byID(ctx, c, goalTemplateTable, id, scanGoalTemplate)
}

// QueryGoalTemplates returns the goal templates matching f
func (c *Conn) QueryGoalTemplates(ctx context.Context, f api.GoalTemplateFilter) ([]GoalTemplate, error) {
	q := newSelect(c.db, goalTemplateTable)
	q.page(f.GoalTemplateID, f.Page)
	return list(ctx, c, q, scanGoalTemplate)
}

// AddGoalTemplateData creates a revision of goal template goalTemplateID
func (c *Conn) AddGoalTemplateData(ctx context.Context, creatorUserID, goalTemplateID int64, name string,
	utility int64, durationEstimate *int64, userGeneratedCodeID int64, active bool) (GoalTemplateData, error) {
	d := GoalTemplateData{
		CreationTime:        c.now(),
		CreatorUserID:       creatorUserID,
		GoalTemplateID:      goalTemplateID,
		Name:                name,
		Utility:             utility,
		DurationEstimate:    durationEstimate,
		UserGeneratedCodeID: userGeneratedCodeID,
		Active:              active,
	}
	id, err := c.insert(ctx, goalTemplateDataTable, d.CreationTime, d.CreatorUserID, d.GoalTemplateID,
		d.Name, d.Utility, d.DurationEstimate, d.UserGeneratedCodeID, d.Active)
	d.GoalTemplateDataID = id
	return d, err
}

// GoalTemplateDataByID returns the goal template revision with id, or nil
func (c *Conn) GoalTemplateDataByID(ctx context.Context, id int64) (*GoalTemplateData, error) {
	return byID(ctx, c, goalTemplateDataTable, id, scanGoalTemplateData)
}

// LatestGoalTemplateData returns the most recent revision of goal template goalTemplateID, or nil
func (c *Conn) LatestGoalTemplateData(ctx context.Context, goalTemplateID int64) (*GoalTemplateData, error) {
	return latestBy(ctx, c, goalTemplateDataTable, "goal_template_id", goalTemplateID, scanGoalTemplateData)
}

// QueryGoalTemplateData returns the goal template revisions matching f
func (c *Conn) QueryGoalTemplateData(ctx context.Context, f api.GoalTemplateDataFilter) ([]GoalTemplateData, error) {
	q := newSelect(c.db, goalTemplateDataTable)
	if f.OnlyRecent {
		q.recent("goal_template_id")
	}
	q.page(f.GoalTemplateDataID, f.Page)
	in(q, "goal_template_id", f.GoalTemplateID)
	in(q, "name", f.Name)
	in(q, "user_generated_code_id", f.UserGeneratedCodeID)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanGoalTemplateData)
}

// AddGoalTemplatePattern attaches pattern to goal template goalTemplateID
func (c *Conn) AddGoalTemplatePattern(ctx context.Context, creatorUserID, goalTemplateID int64, pattern string, active bool) (GoalTemplatePattern, error) {
	p := GoalTemplatePattern{
		CreationTime:   c.now(),
		CreatorUserID:  creatorUserID,
		GoalTemplateID: goalTemplateID,
		Pattern:        pattern,
		Active:         active,
	}
	id, err := c.insert(ctx, goalTemplatePatternTable, p.CreationTime, p.CreatorUserID, p.GoalTemplateID,
		p.Pattern, p.Active)
	p.GoalTemplatePatternID = id
	return p, err
}

// GoalTemplatePatternByID returns the goal template pattern with id, or nil
func (c *Conn) GoalTemplatePatternByID(ctx context.Context, id int64) (*GoalTemplatePattern, error) {
	return byID(ctx, c, goalTemplatePatternTable, id, scanGoalTemplatePattern)
}

// QueryGoalTemplatePatterns returns the goal template patterns matching f
func (c *Conn) QueryGoalTemplatePatterns(ctx context.Context, f api.GoalTemplatePatternFilter) ([]GoalTemplatePattern, error) {
	q := newSelect(c.db, goalTemplatePatternTable)
	if f.OnlyRecent {
		q.recent("goal_template_id")
	}
	q.page(f.GoalTemplatePatternID, f.Page)
	in(q, "goal_template_id", f.GoalTemplateID)
	in(q, "pattern", f.Pattern)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanGoalTemplatePattern)
}
