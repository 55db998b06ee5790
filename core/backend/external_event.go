package backend

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/store"
)

func (b *Backend) handleExternalEventRoutes() {
	handleNew(b, "external_event", checkExternalEventNew, execExternalEventNew, (*filler).externalEventData)
	handleView(b, "external_event",
		func(f *api.ExternalEventFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryExternalEvents,
		func(ee store.ExternalEvent) int64 { return ee.CreatorUserID },
		(*filler).externalEvent)

	handleNew(b, "external_event_data", checkExternalEventDataNew, execExternalEventDataNew, (*filler).externalEventData)
	handleView(b, "external_event_data",
		func(f *api.ExternalEventDataFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryExternalEventData,
		func(eed store.ExternalEventData) int64 { return eed.CreatorUserID },
		(*filler).externalEventData)
}

func checkExternalEventNew(props *api.ExternalEventNewProps) error {
	return validateTimeSpan(props.StartTime, props.EndTime)
}

// execExternalEventNew creates an external event with an active first revision
func execExternalEventNew(ctx context.Context, tx *writeTx, user api.User, props *api.ExternalEventNewProps) (store.ExternalEventData, error) {
	event, err := tx.AddExternalEvent(ctx, user.UserID)
	if err != nil {
		return store.ExternalEventData{}, err
	}
	if err = tx.notify(ctx, "external_event", event.ExternalEventID, event.CreatorUserID, event.CreationTime); err != nil {
		return store.ExternalEventData{}, err
	}
	data, err := tx.AddExternalEventData(ctx, user.UserID, event.ExternalEventID, props.Name, props.StartTime, props.EndTime, true)
	if err != nil {
		return store.ExternalEventData{}, err
	}
	return data, tx.notify(ctx, "external_event_data", data.ExternalEventDataID, data.CreatorUserID, data.CreationTime)
}

func checkExternalEventDataNew(props *api.ExternalEventDataNewProps) error {
	return validateTimeSpan(props.StartTime, props.EndTime)
}

func execExternalEventDataNew(ctx context.Context, tx *writeTx, user api.User, props *api.ExternalEventDataNewProps) (store.ExternalEventData, error) {
	if _, err := tx.ownedExternalEvent(ctx, user, props.ExternalEventID); err != nil {
		return store.ExternalEventData{}, err
	}
	data, err := tx.AddExternalEventData(ctx, user.UserID, props.ExternalEventID, props.Name, props.StartTime, props.EndTime, props.Active)
	if err != nil {
		return store.ExternalEventData{}, err
	}
	return data, tx.notify(ctx, "external_event_data", data.ExternalEventDataID, data.CreatorUserID, data.CreationTime)
}
