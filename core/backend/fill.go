package backend

import (
	"context"
	"fmt"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/kss"
	"github.com/relabs-tech/todoapp/core/logger"
	"github.com/relabs-tech/todoapp/core/store"
)

// filler expands stored rows into their response form. Referenced entities
// are embedded, and entities with revisions carry their latest revision. A
// filler memoizes what it loads, so it must only be used for one request.
type filler struct {
	c   *store.Conn
	kss kss.Driver

	goals                map[int64]api.Goal
	goalTemplates        map[int64]api.GoalTemplate
	namedEntities        map[int64]api.NamedEntity
	externalEvents       map[int64]api.ExternalEvent
	timeUtilityFunctions map[int64]api.TimeUtilityFunction
	userGeneratedCode    map[int64]api.UserGeneratedCode
}

func (b *Backend) newFiller() *filler {
	return &filler{
		c:                    b.store.Conn(),
		kss:                  b.kss,
		goals:                map[int64]api.Goal{},
		goalTemplates:        map[int64]api.GoalTemplate{},
		namedEntities:        map[int64]api.NamedEntity{},
		externalEvents:       map[int64]api.ExternalEvent{},
		timeUtilityFunctions: map[int64]api.TimeUtilityFunction{},
		userGeneratedCode:    map[int64]api.UserGeneratedCode{},
	}
}

// memoized returns cache[id] or loads it
func memoized[T any](cache map[int64]T, id int64, load func() (T, error)) (T, error) {
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	cache[id] = v
	return v, nil
}

// missing reports a dangling reference. Stored rows only reference
// existing rows, so this indicates a damaged database.
func missing(ctx context.Context, kind api.ErrorKind, what string, id int64) error {
	logger.LogEvent(ctx, logger.Event{
		Msg:      fmt.Sprintf("%s %d is referenced but does not exist", what, id),
		Source:   "fill",
		Severity: logger.SeverityError,
	})
	return kind
}

func (f *filler) goalByID(ctx context.Context, id int64) (api.Goal, error) {
	return memoized(f.goals, id, func() (api.Goal, error) {
		g, err := f.c.GoalByID(ctx, id)
		if err != nil {
			return api.Goal{}, err
		}
		if g == nil {
			return api.Goal{}, missing(ctx, api.ErrGoalNonexistent, "goal", id)
		}
		return f.goalRow(ctx, *g)
	})
}

func (f *filler) goal(ctx context.Context, g store.Goal) (api.Goal, error) {
	return memoized(f.goals, g.GoalID, func() (api.Goal, error) {
		return f.goalRow(ctx, g)
	})
}

func (f *filler) goalRow(ctx context.Context, g store.Goal) (api.Goal, error) {
	latest, err := f.c.LatestGoalData(ctx, g.GoalID)
	if err != nil {
		return api.Goal{}, err
	}
	goal := api.Goal{
		GoalID:        g.GoalID,
		CreationTime:  g.CreationTime,
		CreatorUserID: g.CreatorUserID,
	}
	if latest != nil {
		goal.Latest = &api.GoalRevision{
			GoalDataID:            latest.GoalDataID,
			CreationTime:          latest.CreationTime,
			Name:                  latest.Name,
			DurationEstimate:      latest.DurationEstimate,
			TimeUtilityFunctionID: latest.TimeUtilityFunctionID,
			Status:                latest.Status,
		}
	}
	return goal, nil
}

func (f *filler) goalData(ctx context.Context, gd store.GoalData) (api.GoalData, error) {
	goal, err := f.goalByID(ctx, gd.GoalID)
	if err != nil {
		return api.GoalData{}, err
	}
	tuf, err := f.timeUtilityFunctionByID(ctx, gd.TimeUtilityFunctionID)
	if err != nil {
		return api.GoalData{}, err
	}
	return api.GoalData{
		GoalDataID:          gd.GoalDataID,
		CreationTime:        gd.CreationTime,
		CreatorUserID:       gd.CreatorUserID,
		Goal:                goal,
		Name:                gd.Name,
		DurationEstimate:    gd.DurationEstimate,
		TimeUtilityFunction: tuf,
		Status:              gd.Status,
	}, nil
}

func (f *filler) goalEvent(ctx context.Context, ge store.GoalEvent) (api.GoalEvent, error) {
	goal, err := f.goalByID(ctx, ge.GoalID)
	if err != nil {
		return api.GoalEvent{}, err
	}
	return api.GoalEvent{
		GoalEventID:   ge.GoalEventID,
		CreationTime:  ge.CreationTime,
		CreatorUserID: ge.CreatorUserID,
		Goal:          goal,
		StartTime:     ge.StartTime,
		EndTime:       ge.EndTime,
		Active:        ge.Active,
	}, nil
}

func (f *filler) goalDependency(ctx context.Context, gd store.GoalDependency) (api.GoalDependency, error) {
	goal, err := f.goalByID(ctx, gd.GoalID)
	if err != nil {
		return api.GoalDependency{}, err
	}
	dependentGoal, err := f.goalByID(ctx, gd.DependentGoalID)
	if err != nil {
		return api.GoalDependency{}, err
	}
	return api.GoalDependency{
		GoalDependencyID: gd.GoalDependencyID,
		CreationTime:     gd.CreationTime,
		CreatorUserID:    gd.CreatorUserID,
		Goal:             goal,
		DependentGoal:    dependentGoal,
		Active:           gd.Active,
	}, nil
}

func (f *filler) goalEntityTag(ctx context.Context, gt store.GoalEntityTag) (api.GoalEntityTag, error) {
	goal, err := f.goalByID(ctx, gt.GoalID)
	if err != nil {
		return api.GoalEntityTag{}, err
	}
	namedEntity, err := f.namedEntityByID(ctx, gt.NamedEntityID)
	if err != nil {
		return api.GoalEntityTag{}, err
	}
	return api.GoalEntityTag{
		GoalEntityTagID: gt.GoalEntityTagID,
		CreationTime:    gt.CreationTime,
		CreatorUserID:   gt.CreatorUserID,
		Goal:            goal,
		NamedEntity:     namedEntity,
		Active:          gt.Active,
	}, nil
}

func (f *filler) goalTemplateByID(ctx context.Context, id int64) (api.GoalTemplate, error) {
	return memoized(f.goalTemplates, id, func() (api.GoalTemplate, error) {
		gt, err := f.c.GoalTemplateByID(ctx, id)
		if err != nil {
			return api.GoalTemplate{}, err
		}
		if gt == nil {
			return api.GoalTemplate{}, missing(ctx, api.ErrGoalTemplateNonexistent, "goal template", id)
		}
		return f.goalTemplateRow(ctx, *gt)
	})
}

func (f *filler) goalTemplate(ctx context.Context, gt store.GoalTemplate) (api.GoalTemplate, error) {
	return memoized(f.goalTemplates, gt.GoalTemplateID, func() (api.GoalTemplate, error) {
		return f.goalTemplateRow(ctx, gt)
	})
}

func (f *filler) goalTemplateRow(ctx context.Context, gt store.GoalTemplate) (api.GoalTemplate, error) {
	latest, err := f.c.LatestGoalTemplateData(ctx, gt.GoalTemplateID)
	if err != nil {
		return api.GoalTemplate{}, err
	}
	template := api.GoalTemplate{
		GoalTemplateID: gt.GoalTemplateID,
		CreationTime:   gt.CreationTime,
		CreatorUserID:  gt.CreatorUserID,
	}
	if latest != nil {
		template.Latest = &api.GoalTemplateRevision{
			GoalTemplateDataID:  latest.GoalTemplateDataID,
			CreationTime:        latest.CreationTime,
			Name:                latest.Name,
			Utility:             latest.Utility,
			DurationEstimate:    latest.DurationEstimate,
			UserGeneratedCodeID: latest.UserGeneratedCodeID,
			Active:              latest.Active,
		}
	}
	return template, nil
}

func (f *filler) goalTemplateData(ctx context.Context, gtd store.GoalTemplateData) (api.GoalTemplateData, error) {
	template, err := f.goalTemplateByID(ctx, gtd.GoalTemplateID)
	if err != nil {
		return api.GoalTemplateData{}, err
	}
	code, err := f.userGeneratedCodeByID(ctx, gtd.UserGeneratedCodeID)
	if err != nil {
		return api.GoalTemplateData{}, err
	}
	return api.GoalTemplateData{
		GoalTemplateDataID: gtd.GoalTemplateDataID,
		CreationTime:       gtd.CreationTime,
		CreatorUserID:      gtd.CreatorUserID,
		GoalTemplate:       template,
		Name:               gtd.Name,
		Utility:            gtd.Utility,
		DurationEstimate:   gtd.DurationEstimate,
		UserGeneratedCode:  code,
		Active:             gtd.Active,
	}, nil
}

func (f *filler) goalTemplatePattern(ctx context.Context, gtp store.GoalTemplatePattern) (api.GoalTemplatePattern, error) {
	template, err := f.goalTemplateByID(ctx, gtp.GoalTemplateID)
	if err != nil {
		return api.GoalTemplatePattern{}, err
	}
	return api.GoalTemplatePattern{
		GoalTemplatePatternID: gtp.GoalTemplatePatternID,
		CreationTime:          gtp.CreationTime,
		CreatorUserID:         gtp.CreatorUserID,
		GoalTemplate:          template,
		Pattern:               gtp.Pattern,
		Active:                gtp.Active,
	}, nil
}

func (f *filler) namedEntityByID(ctx context.Context, id int64) (api.NamedEntity, error) {
	return memoized(f.namedEntities, id, func() (api.NamedEntity, error) {
		ne, err := f.c.NamedEntityByID(ctx, id)
		if err != nil {
			return api.NamedEntity{}, err
		}
		if ne == nil {
			return api.NamedEntity{}, missing(ctx, api.ErrNamedEntityNonexistent, "named entity", id)
		}
		return f.namedEntityRow(ctx, *ne)
	})
}

func (f *filler) namedEntity(ctx context.Context, ne store.NamedEntity) (api.NamedEntity, error) {
	return memoized(f.namedEntities, ne.NamedEntityID, func() (api.NamedEntity, error) {
		return f.namedEntityRow(ctx, ne)
	})
}

func (f *filler) namedEntityRow(ctx context.Context, ne store.NamedEntity) (api.NamedEntity, error) {
	latest, err := f.c.LatestNamedEntityData(ctx, ne.NamedEntityID)
	if err != nil {
		return api.NamedEntity{}, err
	}
	namedEntity := api.NamedEntity{
		NamedEntityID: ne.NamedEntityID,
		CreationTime:  ne.CreationTime,
		CreatorUserID: ne.CreatorUserID,
	}
	if latest != nil {
		namedEntity.Latest = &api.NamedEntityRevision{
			NamedEntityDataID: latest.NamedEntityDataID,
			CreationTime:      latest.CreationTime,
			Name:              latest.Name,
			Kind:              latest.Kind,
			Active:            latest.Active,
		}
	}
	return namedEntity, nil
}

func (f *filler) namedEntityData(ctx context.Context, ned store.NamedEntityData) (api.NamedEntityData, error) {
	namedEntity, err := f.namedEntityByID(ctx, ned.NamedEntityID)
	if err != nil {
		return api.NamedEntityData{}, err
	}
	return api.NamedEntityData{
		NamedEntityDataID: ned.NamedEntityDataID,
		CreationTime:      ned.CreationTime,
		CreatorUserID:     ned.CreatorUserID,
		NamedEntity:       namedEntity,
		Name:              ned.Name,
		Kind:              ned.Kind,
		Active:            ned.Active,
	}, nil
}

func (f *filler) namedEntityPattern(ctx context.Context, nep store.NamedEntityPattern) (api.NamedEntityPattern, error) {
	namedEntity, err := f.namedEntityByID(ctx, nep.NamedEntityID)
	if err != nil {
		return api.NamedEntityPattern{}, err
	}
	return api.NamedEntityPattern{
		NamedEntityPatternID: nep.NamedEntityPatternID,
		CreationTime:         nep.CreationTime,
		CreatorUserID:        nep.CreatorUserID,
		NamedEntity:          namedEntity,
		Pattern:              nep.Pattern,
		Active:               nep.Active,
	}, nil
}

func (f *filler) externalEventByID(ctx context.Context, id int64) (api.ExternalEvent, error) {
	return memoized(f.externalEvents, id, func() (api.ExternalEvent, error) {
		ee, err := f.c.ExternalEventByID(ctx, id)
		if err != nil {
			return api.ExternalEvent{}, err
		}
		if ee == nil {
			return api.ExternalEvent{}, missing(ctx, api.ErrExternalEventNonexistent, "external event", id)
		}
		return f.externalEventRow(ctx, *ee)
	})
}

func (f *filler) externalEvent(ctx context.Context, ee store.ExternalEvent) (api.ExternalEvent, error) {
	return memoized(f.externalEvents, ee.ExternalEventID, func() (api.ExternalEvent, error) {
		return f.externalEventRow(ctx, ee)
	})
}

func (f *filler) externalEventRow(ctx context.Context, ee store.ExternalEvent) (api.ExternalEvent, error) {
	latest, err := f.c.LatestExternalEventData(ctx, ee.ExternalEventID)
	if err != nil {
		return api.ExternalEvent{}, err
	}
	externalEvent := api.ExternalEvent{
		ExternalEventID: ee.ExternalEventID,
		CreationTime:    ee.CreationTime,
		CreatorUserID:   ee.CreatorUserID,
	}
	if latest != nil {
		externalEvent.Latest = &api.ExternalEventRevision{
			ExternalEventDataID: latest.ExternalEventDataID,
			CreationTime:        latest.CreationTime,
			Name:                latest.Name,
			StartTime:           latest.StartTime,
			EndTime:             latest.EndTime,
			Active:              latest.Active,
		}
	}
	return externalEvent, nil
}

func (f *filler) externalEventData(ctx context.Context, eed store.ExternalEventData) (api.ExternalEventData, error) {
	externalEvent, err := f.externalEventByID(ctx, eed.ExternalEventID)
	if err != nil {
		return api.ExternalEventData{}, err
	}
	return api.ExternalEventData{
		ExternalEventDataID: eed.ExternalEventDataID,
		CreationTime:        eed.CreationTime,
		CreatorUserID:       eed.CreatorUserID,
		ExternalEvent:       externalEvent,
		Name:                eed.Name,
		StartTime:           eed.StartTime,
		EndTime:             eed.EndTime,
		Active:              eed.Active,
	}, nil
}

func (f *filler) timeUtilityFunctionByID(ctx context.Context, id int64) (api.TimeUtilityFunction, error) {
	return memoized(f.timeUtilityFunctions, id, func() (api.TimeUtilityFunction, error) {
		tuf, err := f.c.TimeUtilityFunctionByID(ctx, id)
		if err != nil {
			return api.TimeUtilityFunction{}, err
		}
		if tuf == nil {
			return api.TimeUtilityFunction{}, missing(ctx, api.ErrTimeUtilityFunctionNonexistent, "time utility function", id)
		}
		return f.timeUtilityFunction(ctx, *tuf)
	})
}

func (f *filler) timeUtilityFunction(_ context.Context, tuf store.TimeUtilityFunction) (api.TimeUtilityFunction, error) {
	return api.TimeUtilityFunction{
		TimeUtilityFunctionID: tuf.TimeUtilityFunctionID,
		CreationTime:          tuf.CreationTime,
		CreatorUserID:         tuf.CreatorUserID,
		StartTimes:            tuf.StartTimes,
		Utils:                 tuf.Utils,
	}, nil
}

func (f *filler) userGeneratedCodeByID(ctx context.Context, id int64) (api.UserGeneratedCode, error) {
	return memoized(f.userGeneratedCode, id, func() (api.UserGeneratedCode, error) {
		ugc, err := f.c.UserGeneratedCodeByID(ctx, id)
		if err != nil {
			return api.UserGeneratedCode{}, err
		}
		if ugc == nil {
			return api.UserGeneratedCode{}, missing(ctx, api.ErrUserGeneratedCodeNonexistent, "user generated code", id)
		}
		return f.userGeneratedCodeRow(ctx, *ugc)
	})
}

func (f *filler) userGeneratedCodeRow(ctx context.Context, ugc store.UserGeneratedCode) (api.UserGeneratedCode, error) {
	return memoized(f.userGeneratedCode, ugc.UserGeneratedCodeID, func() (api.UserGeneratedCode, error) {
		wasm := ugc.WasmCache
		if ugc.WasmCacheKey != "" {
			if f.kss == nil {
				return api.UserGeneratedCode{}, fmt.Errorf("user generated code %d is stored under %s but no kss is configured",
					ugc.UserGeneratedCodeID, ugc.WasmCacheKey)
			}
			data, err := f.kss.Get(ctx, ugc.WasmCacheKey)
			if err != nil {
				return api.UserGeneratedCode{}, fmt.Errorf("cannot load user generated code %d: %w", ugc.UserGeneratedCodeID, err)
			}
			wasm = data
		}
		return api.UserGeneratedCode{
			UserGeneratedCodeID: ugc.UserGeneratedCodeID,
			CreationTime:        ugc.CreationTime,
			CreatorUserID:       ugc.CreatorUserID,
			SourceCode:          ugc.SourceCode,
			SourceLang:          ugc.SourceLang,
			WasmCache:           wasm,
		}, nil
	})
}
