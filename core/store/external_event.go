package store

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
)

// ExternalEvent is the identity of an external event
type ExternalEvent struct {
	ExternalEventID int64
	CreationTime    int64
	CreatorUserID   int64
}

// ExternalEventData is one revision of an external event
type ExternalEventData struct {
	ExternalEventDataID int64
	CreationTime        int64
	CreatorUserID       int64
	ExternalEventID     int64
	Name                string
	StartTime           int64
	EndTime             int64
	Active              bool
}

var (
	externalEventTable = table{name: "external_event", alias: "ee", columns: []string{
		"external_event_id", "creation_time", "creator_user_id"}}
	externalEventDataTable = table{name: "external_event_data", alias: "eed", columns: []string{
		"external_event_data_id", "creation_time", "creator_user_id", "external_event_id", "name",
		"start_time", "end_time", "active"}}
)

func scanExternalEvent(s scanner) (ExternalEvent, error) {
	var e ExternalEvent
	err := s.Scan(&e.ExternalEventID, &e.CreationTime, &e.CreatorUserID)
	return e, err
}

func scanExternalEventData(s scanner) (ExternalEventData, error) {
	var d ExternalEventData
	err := s.Scan(&d.ExternalEventDataID, &d.CreationTime, &d.CreatorUserID, &d.ExternalEventID,
		&d.Name, &d.StartTime, &d.EndTime, &d.Active)
	return d, err
}

// AddExternalEvent creates an external event
func (c *Conn) AddExternalEvent(ctx context.Context, creatorUserID int64) (ExternalEvent, error) {
	e := ExternalEvent{CreationTime: c.now(), CreatorUserID: creatorUserID}
	id, err := c.insert(ctx, externalEventTable, e.CreationTime, e.CreatorUserID)
	e.ExternalEventID = id
	return e, err
}

// ExternalEventByID returns the external event with id, or nil
func (c *Conn) ExternalEventByID(ctx context.Context, id int64) (*ExternalEvent, error) {
	return byID(ctx, c, externalEventTable, id, scanExternalEvent)
}

// QueryExternalEvents returns the external events matching f
func (c *Conn) QueryExternalEvents(ctx context.Context, f api.ExternalEventFilter) ([]ExternalEvent, error) {
	q := newSelect(c.db, externalEventTable)
	q.page(f.ExternalEventID, f.Page)
	return list(ctx, c, q, scanExternalEvent)
}

// AddExternalEventData creates a revision of external event externalEventID
func (c *Conn) AddExternalEventData(ctx context.Context, creatorUserID, externalEventID int64, name string,
	startTime, endTime int64, active bool) (ExternalEventData, error) {
	d := ExternalEventData{
		CreationTime:    c.now(),
		CreatorUserID:   creatorUserID,
		ExternalEventID: externalEventID,
		Name:            name,
		StartTime:       startTime,
		EndTime:         endTime,
		Active:          active,
	}
	id, err := c.insert(ctx, externalEventDataTable, d.CreationTime, d.CreatorUserID, d.ExternalEventID,
		d.Name, d.StartTime, d.EndTime, d.Active)
	d.ExternalEventDataID = id
	return d, err
}

// ExternalEventDataByID returns the external event revision with id, or nil
func (c *Conn) ExternalEventDataByID(ctx context.Context, id int64) (*ExternalEventData, error) {
	return byID(ctx, c, externalEventDataTable, id, scanExternalEventData)
}

// LatestExternalEventData returns the most recent revision of external event externalEventID, or nil
func (c *Conn) LatestExternalEventData(ctx context.Context, externalEventID int64) (*ExternalEventData, error) {
	return latestBy(ctx, c, externalEventDataTable, "external_event_id", externalEventID, scanExternalEventData)
}

// QueryExternalEventData returns the external event revisions matching f
func (c *Conn) QueryExternalEventData(ctx context.Context, f api.ExternalEventDataFilter) ([]ExternalEventData, error) {
	q := newSelect(c.db, externalEventDataTable)
	if f.OnlyRecent {
		q.recent("external_event_id")
	}
	q.page(f.ExternalEventDataID, f.Page)
	in(q, "external_event_id", f.ExternalEventID)
	in(q, "name", f.Name)
	q.min("start_time", f.MinStartTime)
	q.max("start_time", f.MaxStartTime)
	q.min("end_time", f.MinEndTime)
	q.max("end_time", f.MaxEndTime)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanExternalEventData)
}
