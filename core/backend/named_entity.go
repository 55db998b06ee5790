package backend

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/store"
)

func (b *Backend) handleNamedEntityRoutes() {
	handleNew(b, "named_entity", noCheck[api.NamedEntityNewProps], execNamedEntityNew, (*filler).namedEntityData)
	handleView(b, "named_entity",
		func(f *api.NamedEntityFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryNamedEntities,
		func(ne store.NamedEntity) int64 { return ne.CreatorUserID },
		(*filler).namedEntity)

	handleNew(b, "named_entity_data", noCheck[api.NamedEntityDataNewProps], execNamedEntityDataNew, (*filler).namedEntityData)
	handleView(b, "named_entity_data",
		func(f *api.NamedEntityDataFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryNamedEntityData,
		func(ned store.NamedEntityData) int64 { return ned.CreatorUserID },
		(*filler).namedEntityData)

	handleNew(b, "named_entity_pattern", noCheck[api.NamedEntityPatternNewProps], execNamedEntityPatternNew, (*filler).namedEntityPattern)
	handleView(b, "named_entity_pattern",
		func(f *api.NamedEntityPatternFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryNamedEntityPatterns,
		func(nep store.NamedEntityPattern) int64 { return nep.CreatorUserID },
		(*filler).namedEntityPattern)
}

func execNamedEntityNew(ctx context.Context, tx *writeTx, user api.User, props *api.NamedEntityNewProps) (store.NamedEntityData, error) {
	namedEntity, err := tx.AddNamedEntity(ctx, user.UserID)
	if err != nil {
		return store.NamedEntityData{}, err
	}
	if err = tx.notify(ctx, "named_entity", namedEntity.NamedEntityID, namedEntity.CreatorUserID, namedEntity.CreationTime); err != nil {
		return store.NamedEntityData{}, err
	}
	data, err := tx.AddNamedEntityData(ctx, user.UserID, namedEntity.NamedEntityID, props.Name, props.Kind, true)
	if err != nil {
		return store.NamedEntityData{}, err
	}
	return data, tx.notify(ctx, "named_entity_data", data.NamedEntityDataID, data.CreatorUserID, data.CreationTime)
}

func execNamedEntityDataNew(ctx context.Context, tx *writeTx, user api.User, props *api.NamedEntityDataNewProps) (store.NamedEntityData, error) {
	if _, err := tx.ownedNamedEntity(ctx, user, props.NamedEntityID); err != nil {
		return store.NamedEntityData{}, err
	}
	data, err := tx.AddNamedEntityData(ctx, user.UserID, props.NamedEntityID, props.Name, props.Kind, props.Active)
	if err != nil {
		return store.NamedEntityData{}, err
	}
	return data, tx.notify(ctx, "named_entity_data", data.NamedEntityDataID, data.CreatorUserID, data.CreationTime)
}

func execNamedEntityPatternNew(ctx context.Context, tx *writeTx, user api.User, props *api.NamedEntityPatternNewProps) (store.NamedEntityPattern, error) {
	if _, err := tx.ownedNamedEntity(ctx, user, props.NamedEntityID); err != nil {
		return store.NamedEntityPattern{}, err
	}
	pattern, err := tx.AddNamedEntityPattern(ctx, user.UserID, props.NamedEntityID, props.Pattern, props.Active)
	if err != nil {
		return store.NamedEntityPattern{}, err
	}
	return pattern, tx.notify(ctx, "named_entity_pattern", pattern.NamedEntityPatternID, pattern.CreatorUserID, pattern.CreationTime)
}
