package store

import (
	"context"
	"database/sql"

	"github.com/relabs-tech/todoapp/core/api"
)

// Goal is the identity of a goal
type Goal struct {
	GoalID        int64
	CreationTime  int64
	CreatorUserID int64
}

// GoalData is one revision of a goal
type GoalData struct {
	GoalDataID            int64
	CreationTime          int64
	CreatorUserID         int64
	GoalID                int64
	Name                  string
	DurationEstimate      *int64
	TimeUtilityFunctionID int64
	Status                api.GoalDataStatus
}

// GoalEvent schedules a goal
type GoalEvent struct {
	GoalEventID   int64
	CreationTime  int64
	CreatorUserID int64
	GoalID        int64
	StartTime     int64
	EndTime       int64
	Active        bool
}

// GoalDependency records that GoalID depends on DependentGoalID
type GoalDependency struct {
	GoalDependencyID int64
	CreationTime     int64
	CreatorUserID    int64
	GoalID           int64
	DependentGoalID  int64
	Active           bool
}

// GoalEntityTag tags a goal with a named entity
type GoalEntityTag struct {
	GoalEntityTagID int64
	CreationTime    int64
	CreatorUserID   int64
	NamedEntityID   int64
	GoalID          int64
	Active          bool
}

var (
	goalTable = table{name: "goal", alias: "g", columns: []string{
		"goal_id", "creation_time", "creator_user_id"}}
	goalDataTable = table{name: "goal_data", alias: "gd", columns: []string{
		"goal_data_id", "creation_time", "creator_user_id", "goal_id", "name",
		"duration_estimate", "time_utility_function_id", "status"}}
	goalEventTable = table{name: "goal_event", alias: "ge", columns: []string{
		"goal_event_id", "creation_time", "creator_user_id", "goal_id", "start_time", "end_time", "active"}}
	goalDependencyTable = table{name: "goal_dependency", alias: "gdep", columns: []string{
		"goal_dependency_id", "creation_time", "creator_user_id", "goal_id", "dependent_goal_id", "active"}}
	goalEntityTagTable = table{name: "goal_entity_tag", alias: "gt", columns: []string{
		"goal_entity_tag_id", "creation_time", "creator_user_id", "named_entity_id", "goal_id", "active"}}
)

func scanGoal(s scanner) (Goal, error) {
	var g Goal
	err := s.Scan(&g.GoalID, &g.CreationTime, &g.CreatorUserID)
	return g, err
}

func scanGoalData(s scanner) (GoalData, error) {
	var (
		gd       GoalData
		duration sql.NullInt64
		status   int64
	)
	err := s.Scan(&gd.GoalDataID, &gd.CreationTime, &gd.CreatorUserID, &gd.GoalID, &gd.Name,
		&duration, &gd.TimeUtilityFunctionID, &status)
	if err != nil {
		return gd, err
	}
	gd.DurationEstimate = nullInt64(duration)
	if gd.Status, err = api.ParseGoalDataStatus(status); err != nil {
		return gd, corrupt(goalDataTable, gd.GoalDataID, err)
	}
	return gd, nil
}

func scanGoalEvent(s scanner) (GoalEvent, error) {
	var ge GoalEvent
	err := s.Scan(&ge.GoalEventID, &ge.CreationTime, &ge.CreatorUserID, &ge.GoalID,
		&ge.StartTime, &ge.EndTime, &ge.Active)
	return ge, err
}

func scanGoalDependency(s scanner) (GoalDependency, error) {
	var gd GoalDependency
	err := s.Scan(&gd.GoalDependencyID, &gd.CreationTime, &gd.CreatorUserID, &gd.GoalID,
		&gd.DependentGoalID, &gd.Active)
	return gd, err
}

func scanGoalEntityTag(s scanner) (GoalEntityTag, error) {
	var t GoalEntityTag
	err := s.Scan(&t.GoalEntityTagID, &t.CreationTime, &t.CreatorUserID, &t.NamedEntityID,
		&t.GoalID, &t.Active)
	return t, err
}

// AddGoal creates a goal
func (c *Conn) AddGoal(ctx context.Context, creatorUserID int64) (Goal, error) {
	g := Goal{CreationTime: c.now(), CreatorUserID: creatorUserID}
	id, err := c.insert(ctx, goalTable, g.CreationTime, g.CreatorUserID)
	g.GoalID = id
	return g, err
}

// GoalByID returns the goal with id, or nil
func (c *Conn) GoalByID(ctx context.Context, id int64) (*Goal, error) {
	return byID(ctx, c, goalTable, id, scanGoal)
}

// QueryGoals returns the goals matching f
func (c *Conn) QueryGoals(ctx context.Context, f api.GoalFilter) ([]Goal, error) {
	q := newSelect(c.db, goalTable)
	q.page(f.GoalID, f.Page)
	return list(ctx, c, q, scanGoal)
}

// AddGoalData creates a revision of goal goalID
func (c *Conn) AddGoalData(ctx context.Context, creatorUserID, goalID int64, name string,
	durationEstimate *int64, timeUtilityFunctionID int64, status api.GoalDataStatus) (GoalData, error) {
	gd := GoalData{
		CreationTime:          c.now(),
		CreatorUserID:         creatorUserID,
		GoalID:                goalID,
		Name:                  name,
		DurationEstimate:      durationEstimate,
		TimeUtilityFunctionID: timeUtilityFunctionID,
		Status:                status,
	}
	id, err := c.insert(ctx, goalDataTable, gd.CreationTime, gd.CreatorUserID, gd.GoalID, gd.Name,
		gd.DurationEstimate, gd.TimeUtilityFunctionID, int64(gd.Status))
	gd.GoalDataID = id
	return gd, err
}

// GoalDataByID returns the goal revision with id, or nil
func (c *Conn) GoalDataByID(ctx context.Context, id int64) (*GoalData, error) {
	return byID(ctx, c, goalDataTable, id, scanGoalData)
}

// LatestGoalData returns the most recent revision of goal goalID, or nil
func (c *Conn) LatestGoalData(ctx context.Context, goalID int64) (*GoalData, error) {
	return latestBy(ctx, c, goalDataTable, "goal_id", goalID, scanGoalData)
}

// QueryGoalData returns the goal revisions matching f
func (c *Conn) QueryGoalData(ctx context.Context, f api.GoalDataFilter) ([]GoalData, error) {
	q := newSelect(c.db, goalDataTable)
	if f.OnlyRecent {
		q.recent("goal_id")
	}
	if f.Scheduled != nil {
		// a goal is scheduled if its most recent event is active
		q.joins = append(q.joins, "LEFT JOIN (SELECT rge.goal_id, rge.active FROM "+c.db.Table(goalEventTable.name)+
			" rge INNER JOIN (SELECT max(goal_event_id) AS recent_id FROM "+c.db.Table(goalEventTable.name)+
			" GROUP BY goal_id) rgem ON rgem.recent_id = rge.goal_event_id) sched ON sched.goal_id = gd.goal_id")
		q.where = append(q.where, "COALESCE(sched.active, FALSE) = "+q.arg(*f.Scheduled))
	}
	q.page(f.GoalDataID, f.Page)
	in(q, "goal_id", f.GoalID)
	in(q, "name", f.Name)
	q.min("duration_estimate", f.MinDurationEstimate)
	q.max("duration_estimate", f.MaxDurationEstimate)
	q.notNull("duration_estimate", f.Concrete)
	in(q, "time_utility_function_id", f.TimeUtilityFunctionID)
	in(q, "status", int64s(f.Status))
	return list(ctx, c, q, scanGoalData)
}

// AddGoalEvent schedules goal goalID
func (c *Conn) AddGoalEvent(ctx context.Context, creatorUserID, goalID, startTime, endTime int64, active bool) (GoalEvent, error) {
	ge := GoalEvent{
		CreationTime:  c.now(),
		CreatorUserID: creatorUserID,
		GoalID:        goalID,
		StartTime:     startTime,
		EndTime:       endTime,
		Active:        active,
	}
	id, err := c.insert(ctx, goalEventTable, ge.CreationTime, ge.CreatorUserID, ge.GoalID,
		ge.StartTime, ge.EndTime, ge.Active)
	ge.GoalEventID = id
	return ge, err
}

// GoalEventByID returns the goal event with id, or nil
func (c *Conn) GoalEventByID(ctx context.Context, id int64) (*GoalEvent, error) {
	return byID(ctx, c, goalEventTable, id, scanGoalEvent)
}

// QueryGoalEvents returns the goal events matching f
func (c *Conn) QueryGoalEvents(ctx context.Context, f api.GoalEventFilter) ([]GoalEvent, error) {
	q := newSelect(c.db, goalEventTable)
	if f.OnlyRecent {
		q.recent("goal_id")
	}
	q.page(f.GoalEventID, f.Page)
	in(q, "goal_id", f.GoalID)
	q.min("start_time", f.MinStartTime)
	q.max("start_time", f.MaxStartTime)
	q.min("end_time", f.MinEndTime)
	q.max("end_time", f.MaxEndTime)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanGoalEvent)
}

// AddGoalDependency records that goalID depends on dependentGoalID
func (c *Conn) AddGoalDependency(ctx context.Context, creatorUserID, goalID, dependentGoalID int64, active bool) (GoalDependency, error) {
	gd := GoalDependency{
		CreationTime:    c.now(),
		CreatorUserID:   creatorUserID,
		GoalID:          goalID,
		DependentGoalID: dependentGoalID,
		Active:          active,
	}
	id, err := c.insert(ctx, goalDependencyTable, gd.CreationTime, gd.CreatorUserID, gd.GoalID,
		gd.DependentGoalID, gd.Active)
	gd.GoalDependencyID = id
	return gd, err
}

// GoalDependencyByID returns the goal dependency with id, or nil
func (c *Conn) GoalDependencyByID(ctx context.Context, id int64) (*GoalDependency, error) {
	return byID(ctx, c, goalDependencyTable, id, scanGoalDependency)
}

// QueryGoalDependencies returns the goal dependencies matching f. The most
// recent record of a dependency is the latest one per goal pair.
func (c *Conn) QueryGoalDependencies(ctx context.Context, f api.GoalDependencyFilter) ([]GoalDependency, error) {
	q := newSelect(c.db, goalDependencyTable)
	if f.OnlyRecent {
		q.recent("goal_id", "dependent_goal_id")
	}
	q.page(f.GoalDependencyID, f.Page)
	in(q, "goal_id", f.GoalID)
	in(q, "dependent_goal_id", f.DependentGoalID)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanGoalDependency)
}

// AddGoalEntityTag tags goal goalID with named entity namedEntityID
func (c *Conn) AddGoalEntityTag(ctx context.Context, creatorUserID, namedEntityID, goalID int64, active bool) (GoalEntityTag, error) {
	t := GoalEntityTag{
		CreationTime:  c.now(),
		CreatorUserID: creatorUserID,
		NamedEntityID: namedEntityID,
		GoalID:        goalID,
		Active:        active,
	}
	id, err := c.insert(ctx, goalEntityTagTable, t.CreationTime, t.CreatorUserID, t.NamedEntityID,
		t.GoalID, t.Active)
	t.GoalEntityTagID = id
	return t, err
}

// GoalEntityTagByID returns the goal entity tag with id, or nil
func (c *Conn) GoalEntityTagByID(ctx context.Context, id int64) (*GoalEntityTag, error) {
	return byID(ctx, c, goalEntityTagTable, id, scanGoalEntityTag)
}

// QueryGoalEntityTags returns the goal entity tags matching f. The most recent
// record of a tag is the latest one per goal and named entity.
func (c *Conn) QueryGoalEntityTags(ctx context.Context, f api.GoalEntityTagFilter) ([]GoalEntityTag, error) {
	q := newSelect(c.db, goalEntityTagTable)
	if f.OnlyRecent {
		q.recent("goal_id", "named_entity_id")
	}
	q.page(f.GoalEntityTagID, f.Page)
	in(q, "named_entity_id", f.NamedEntityID)
	in(q, "goal_id", f.GoalID)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanGoalEntityTag)
}
