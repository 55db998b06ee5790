package store

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
)

// NamedEntity is the identity of a named entity
type NamedEntity struct {
	NamedEntityID int64
	CreationTime  int64
	CreatorUserID int64
}

// NamedEntityData is one revision of a named entity
type NamedEntityData struct {
	NamedEntityDataID int64
	CreationTime      int64
	CreatorUserID     int64
	NamedEntityID     int64
	Name              string
	Kind              api.NamedEntityKind
	Active            bool
}

// NamedEntityPattern attaches a pattern to a named entity
type NamedEntityPattern struct {
	NamedEntityPatternID int64
	CreationTime         int64
	CreatorUserID        int64
	NamedEntityID        int64
	Pattern              string
	Active               bool
}

var (
	namedEntityTable = table{name: "named_entity", alias: "ne", columns: []string{
		"named_entity_id", "creation_time", "creator_user_id"}}
	namedEntityDataTable = table{name: "named_entity_data", alias: "ned", columns: []string{
		"named_entity_data_id", "creation_time", "creator_user_id", "named_entity_id", "name", "kind", "active"}}
	namedEntityPatternTable = table{name: "named_entity_pattern", alias: "nep", columns: []string{
		"named_entity_pattern_id", "creation_time", "creator_user_id", "named_entity_id", "pattern", "active"}}
)

func scanNamedEntity(s scanner) (NamedEntity, error) {
	var ne NamedEntity
	err := s.Scan(&ne.NamedEntityID, &ne.CreationTime, &ne.CreatorUserID)
	return ne, err
}

func scanNamedEntityData(s scanner) (NamedEntityData, error) {
	var (
		d    NamedEntityData
		kind int64
	)
	err := s.Scan(&d.NamedEntityDataID, &d.CreationTime, &d.CreatorUserID, &d.NamedEntityID,
		&d.Name, &kind, &d.Active)
	if err != nil {
		return d, err
	}
	if d.Kind, err = api.ParseNamedEntityKind(kind); err != nil {
		return d, corrupt(namedEntityDataTable, d.NamedEntityDataID, err)
	}
	return d, nil
}

func scanNamedEntityPattern(s scanner) (NamedEntityPattern, error) {
	var p NamedEntityPattern
	err := s.Scan(&p.NamedEntityPatternID, &p.CreationTime, &p.CreatorUserID, &p.NamedEntityID,
		&p.Pattern, &p.Active)
	return p, err
}

// AddNamedEntity creates a named entity
func (c *Conn) AddNamedEntity(ctx context.Context, creatorUserID int64) (NamedEntity, error) {
	ne := NamedEntity{CreationTime: c.now(), CreatorUserID: creatorUserID}
	id, err := c.insert(ctx, namedEntityTable, ne.CreationTime, ne.CreatorUserID)
	ne.NamedEntityID = id
	return ne, err
}

// NamedEntityByID returns the named entity with id, or nil
func (c *Conn) NamedEntityByID(ctx context.Context, id int64) (*NamedEntity, error) {
	return byID(ctx, c, namedEntityTable, id, scanNamedEntity)
}

// QueryNamedEntities returns the named entities matching f
func (c *Conn) QueryNamedEntities(ctx context.Context, f api.NamedEntityFilter) ([]NamedEntity, error) {
	q := newSelect(c.db, namedEntityTable)
	q.page(f.NamedEntityID, f.Page)
	return list(ctx, c, q, scanNamedEntity)
}

// AddNamedEntityData creates a revision of named entity namedEntityID
func (c *Conn) AddNamedEntityData(ctx context.Context, creatorUserID, namedEntityID int64, name string,
	kind api.NamedEntityKind, active bool) (NamedEntityData, error) {
	d := NamedEntityData{
		CreationTime:  c.now(),
		CreatorUserID: creatorUserID,
		NamedEntityID: namedEntityID,
		Name:          name,
		Kind:          kind,
		Active:        active,
	}
	id, err := c.insert(ctx, namedEntityDataTable, d.CreationTime, d.CreatorUserID, d.NamedEntityID,
		d.Name, int64(d.Kind), d.Active)
	d.NamedEntityDataID = id
	return d, err
}

// NamedEntityDataByID returns the named entity revision with id, or nil
func (c *Conn) NamedEntityDataByID(ctx context.Context, id int64) (*NamedEntityData, error) {
	return byID(ctx, c, namedEntityDataTable, id, scanNamedEntityData)
}

// LatestNamedEntityData returns the most recent revision of named entity namedEntityID, or nil
func (c *Conn) LatestNamedEntityData(ctx context.Context, namedEntityID int64) (*NamedEntityData, error) {
	return latestBy(ctx, c, namedEntityDataTable, "named_entity_id", namedEntityID, scanNamedEntityData)
}

// QueryNamedEntityData returns the named entity revisions matching f
func (c *Conn) QueryNamedEntityData(ctx context.Context, f api.NamedEntityDataFilter) ([]NamedEntityData, error) {
	q := newSelect(c.db, namedEntityDataTable)
	if f.OnlyRecent {
		q.recent("named_entity_id")
	}
	q.page(f.NamedEntityDataID, f.Page)
	in(q, "named_entity_id", f.NamedEntityID)
	in(q, "name", f.Name)
	in(q, "kind", int64s(f.Kind))
	q.equal("active", f.Active)
	return list(ctx, c, q, scanNamedEntityData)
}

// AddNamedEntityPattern attaches pattern to named entity namedEntityID
func (c *Conn) AddNamedEntityPattern(ctx context.Context, creatorUserID, namedEntityID int64, pattern string, active bool) (NamedEntityPattern, error) {
	p := NamedEntityPattern{
		CreationTime:  c.now(),
		CreatorUserID: creatorUserID,
		NamedEntityID: namedEntityID,
		Pattern:       pattern,
		Active:        active,
	}
	id, err := c.insert(ctx, namedEntityPatternTable, p.CreationTime, p.CreatorUserID, p.NamedEntityID,
		p.Pattern, p.Active)
	p.NamedEntityPatternID = id
	return p, err
}

// NamedEntityPatternByID returns the named entity pattern with id, or nil
func (c *Conn) NamedEntityPatternByID(ctx context.Context, id int64) (*NamedEntityPattern, error) {
	return byID(ctx, c, namedEntityPatternTable, id, scanNamedEntityPattern)
}

// QueryNamedEntityPatterns returns the named entity patterns matching f
func (c *Conn) QueryNamedEntityPatterns(ctx context.Context, f api.NamedEntityPatternFilter) ([]NamedEntityPattern, error) {
	q := newSelect(c.db, namedEntityPatternTable)
	if f.OnlyRecent {
		q.recent("named_entity_id")
	}
	q.page(f.NamedEntityPatternID, f.Page)
	in(q, "named_entity_id", f.NamedEntityID)
	in(q, "pattern", f.Pattern)
	q.equal("active", f.Active)
	return list(ctx, c, q, scanNamedEntityPattern)
}
