package backend_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/todoapp/core/access"
	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/backend"
	"github.com/relabs-tech/todoapp/core/client"
	"github.com/relabs-tech/todoapp/core/csql"
	"github.com/relabs-tech/todoapp/core/events"
	"github.com/relabs-tech/todoapp/core/kss"
	"github.com/relabs-tech/todoapp/core/store"
)

const (
	aliceKey = "alice-api-key"
	bobKey   = "bob-api-key"
)

type testService struct {
	backend  *backend.Backend
	router   *mux.Router
	registry *prometheus.Registry
	alice    client.Client
	bob      client.Client
	anonym   client.Client
}

func newTestService(t *testing.T, configure ...func(*backend.Builder)) *testService {
	t.Helper()
	ctx := context.Background()
	db, err := csql.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auth := access.NewStaticAuthService()
	auth.Add(aliceKey, api.User{UserID: 1, CreationTime: 10})
	auth.Add(bobKey, api.User{UserID: 2, CreationTime: 20})

	router := mux.NewRouter()
	registry := prometheus.NewRegistry()
	builder := &backend.Builder{
		Store:       store.New(db),
		AuthService: auth,
		Router:      router,
		Registry:    registry,
	}
	for _, c := range configure {
		c(builder)
	}
	b := backend.New(builder)

	c := client.NewWithRouter(router)
	return &testService{
		backend:  b,
		router:   router,
		registry: registry,
		alice:    c.WithAPIKey(aliceKey),
		bob:      c.WithAPIKey(bobKey),
		anonym:   c,
	}
}

func i64(v int64) *int64 { return &v }
func bp(v bool) *bool    { return &v }

func (s *testService) newTimeUtilityFunction(t *testing.T, c client.Client) api.TimeUtilityFunction {
	t.Helper()
	tuf, err := c.NewTimeUtilityFunction(api.TimeUtilityFunctionNewProps{
		StartTimes: []int64{0, 1000},
		Utils:      []int64{10, 5},
	})
	require.NoError(t, err)
	return tuf
}

func (s *testService) newGoal(t *testing.T, c client.Client, name string) api.GoalData {
	t.Helper()
	tuf := s.newTimeUtilityFunction(t, c)
	goalData, err := c.NewGoal(api.GoalNewProps{Name: name, TimeUtilityFunctionID: tuf.TimeUtilityFunctionID})
	require.NoError(t, err)
	return goalData
}

func assertKind(t *testing.T, err error, kind api.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %s, got %v", kind, err)
	var clientErr *client.Error
	if assert.True(t, errors.As(err, &clientErr)) {
		assert.Equal(t, kind.StatusCode(), clientErr.Status)
	}
}

func TestGoalNewWithTimeSpan(t *testing.T) {
	s := newTestService(t)
	tuf := s.newTimeUtilityFunction(t, s.alice)

	span := api.TimeSpan{100, 200}
	goalData, err := s.alice.NewGoal(api.GoalNewProps{
		Name:                  "write report",
		DurationEstimate:      i64(60),
		TimeUtilityFunctionID: tuf.TimeUtilityFunctionID,
		TimeSpan:              &span,
	})
	require.NoError(t, err)

	assert.Equal(t, "write report", goalData.Name)
	assert.Equal(t, api.GoalDataStatusPending, goalData.Status)
	assert.Equal(t, int64(1), goalData.CreatorUserID)
	require.NotNil(t, goalData.DurationEstimate)
	assert.Equal(t, int64(60), *goalData.DurationEstimate)
	assert.Equal(t, tuf, goalData.TimeUtilityFunction)
	require.NotNil(t, goalData.Goal.Latest)
	assert.Equal(t, goalData.GoalDataID, goalData.Goal.Latest.GoalDataID)
	assert.Equal(t, "write report", goalData.Goal.Latest.Name)

	goalEvents, err := s.alice.ViewGoalEvents(api.GoalEventViewProps{
		GoalEventFilter: api.GoalEventFilter{GoalID: []int64{goalData.Goal.GoalID}},
	})
	require.NoError(t, err)
	require.Len(t, goalEvents, 1)
	assert.Equal(t, int64(100), goalEvents[0].StartTime)
	assert.Equal(t, int64(200), goalEvents[0].EndTime)
	assert.True(t, goalEvents[0].Active)
	assert.Equal(t, goalData.Goal.GoalID, goalEvents[0].Goal.GoalID)
}

func TestGoalNewWithoutTimeSpanIsNotScheduled(t *testing.T) {
	s := newTestService(t)
	goalData := s.newGoal(t, s.alice, "unscheduled")
	assert.Nil(t, goalData.DurationEstimate)

	goalEvents, err := s.alice.ViewGoalEvents(api.GoalEventViewProps{})
	require.NoError(t, err)
	assert.Empty(t, goalEvents)

	scheduled, err := s.alice.ViewGoalData(api.GoalDataViewProps{
		GoalDataFilter: api.GoalDataFilter{Scheduled: bp(true)},
	})
	require.NoError(t, err)
	assert.Empty(t, scheduled)
}

func TestGoalNewValidation(t *testing.T) {
	s := newTestService(t)
	tuf := s.newTimeUtilityFunction(t, s.alice)

	tests := []struct {
		name  string
		props api.GoalNewProps
		kind  api.ErrorKind
	}{
		{"end before start", api.GoalNewProps{TimeSpan: &api.TimeSpan{100, 50}}, api.ErrNegativeDuration},
		{"empty time span", api.GoalNewProps{TimeSpan: &api.TimeSpan{100, 100}}, api.ErrNegativeDuration},
		{"negative start", api.GoalNewProps{TimeSpan: &api.TimeSpan{-1, 50}}, api.ErrNegativeStartTime},
		{"zero duration", api.GoalNewProps{DurationEstimate: i64(0)}, api.ErrNegativeDuration},
		{"negative duration", api.GoalNewProps{DurationEstimate: i64(-5)}, api.ErrNegativeDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.props.Name = tt.name
			tt.props.TimeUtilityFunctionID = tuf.TimeUtilityFunctionID
			_, err := s.alice.NewGoal(tt.props)
			assertKind(t, err, tt.kind)
		})
	}

	goals, err := s.alice.ViewGoals(api.GoalViewProps{})
	require.NoError(t, err)
	assert.Empty(t, goals, "failed requests must not persist anything")
}

func TestTimeUtilityFunctionNotValid(t *testing.T) {
	s := newTestService(t)
	_, err := s.alice.NewTimeUtilityFunction(api.TimeUtilityFunctionNewProps{
		StartTimes: []int64{0, 10, 20},
		Utils:      []int64{1, 2},
	})
	assertKind(t, err, api.ErrTimeUtilityFunctionNotValid)

	tufs, err := s.alice.ViewTimeUtilityFunctions(api.TimeUtilityFunctionViewProps{})
	require.NoError(t, err)
	assert.Empty(t, tufs)
}

func TestForeignKeysMustBeOwned(t *testing.T) {
	s := newTestService(t)
	bobsTUF := s.newTimeUtilityFunction(t, s.bob)
	bobsGoal := s.newGoal(t, s.bob, "bob's goal")
	alicesGoal := s.newGoal(t, s.alice, "alice's goal")

	_, err := s.alice.NewGoal(api.GoalNewProps{Name: "x", TimeUtilityFunctionID: bobsTUF.TimeUtilityFunctionID})
	assertKind(t, err, api.ErrTimeUtilityFunctionNonexistent)

	_, err = s.alice.NewGoal(api.GoalNewProps{Name: "x", TimeUtilityFunctionID: 4711})
	assertKind(t, err, api.ErrTimeUtilityFunctionNonexistent)

	_, err = s.alice.NewGoalEvent(api.GoalEventNewProps{GoalID: bobsGoal.Goal.GoalID, StartTime: 1, EndTime: 2, Active: true})
	assertKind(t, err, api.ErrGoalNonexistent)

	_, err = s.alice.NewGoalDependency(api.GoalDependencyNewProps{
		GoalID:          alicesGoal.Goal.GoalID,
		DependentGoalID: bobsGoal.Goal.GoalID,
		Active:          true,
	})
	assertKind(t, err, api.ErrGoalNonexistent)

	namedEntity, err := s.bob.NewNamedEntity(api.NamedEntityNewProps{Name: "Bob", Kind: api.NamedEntityKindPerson})
	require.NoError(t, err)
	_, err = s.alice.NewGoalEntityTag(api.GoalEntityTagNewProps{
		GoalID:        alicesGoal.Goal.GoalID,
		NamedEntityID: namedEntity.NamedEntity.NamedEntityID,
		Active:        true,
	})
	assertKind(t, err, api.ErrNamedEntityNonexistent)

	_, err = s.alice.NewNamedEntityPattern(api.NamedEntityPatternNewProps{
		NamedEntityID: namedEntity.NamedEntity.NamedEntityID,
		Pattern:       "bob*",
	})
	assertKind(t, err, api.ErrNamedEntityNonexistent)

	externalEvent, err := s.bob.NewExternalEvent(api.ExternalEventNewProps{Name: "standup", StartTime: 10, EndTime: 20})
	require.NoError(t, err)
	_, err = s.alice.NewExternalEventData(api.ExternalEventDataNewProps{
		ExternalEventID: externalEvent.ExternalEvent.ExternalEventID,
		Name:            "mine now",
		StartTime:       10,
		EndTime:         20,
	})
	assertKind(t, err, api.ErrExternalEventNonexistent)

	dependencies, err := s.alice.ViewGoalDependencies(api.GoalDependencyViewProps{})
	require.NoError(t, err)
	assert.Empty(t, dependencies)
}

func TestGoalEventNewRejectsReversedTimeSpan(t *testing.T) {
	s := newTestService(t)
	goal := s.newGoal(t, s.alice, "reversed")

	_, err := s.alice.NewGoalEvent(api.GoalEventNewProps{GoalID: goal.Goal.GoalID, StartTime: 100, EndTime: 50, Active: true})
	assertKind(t, err, api.ErrNegativeDuration)

	_, err = s.alice.NewGoalEvent(api.GoalEventNewProps{GoalID: goal.Goal.GoalID, StartTime: -1, EndTime: 50, Active: true})
	assertKind(t, err, api.ErrNegativeStartTime)

	goalEvents, err := s.alice.ViewGoalEvents(api.GoalEventViewProps{
		GoalEventFilter: api.GoalEventFilter{GoalID: []int64{goal.Goal.GoalID}},
	})
	require.NoError(t, err)
	assert.Empty(t, goalEvents)
}

func TestViewReturnsOnlyOwnRows(t *testing.T) {
	s := newTestService(t)
	_, err := s.alice.NewNamedEntity(api.NamedEntityNewProps{Name: "Berlin", Kind: api.NamedEntityKindLocation})
	require.NoError(t, err)
	_, err = s.bob.NewNamedEntity(api.NamedEntityNewProps{Name: "Paris", Kind: api.NamedEntityKindLocation})
	require.NoError(t, err)

	data, err := s.alice.ViewNamedEntityData(api.NamedEntityDataViewProps{
		NamedEntityDataFilter: api.NamedEntityDataFilter{
			Page: api.Page{CreatorUserID: []int64{2}},
		},
	})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "Berlin", data[0].Name)
	assert.Equal(t, api.NamedEntityKindLocation, data[0].Kind)
	assert.True(t, data[0].Active)

	namedEntities, err := s.bob.ViewNamedEntities(api.NamedEntityViewProps{})
	require.NoError(t, err)
	require.Len(t, namedEntities, 1)
	require.NotNil(t, namedEntities[0].Latest)
	assert.Equal(t, "Paris", namedEntities[0].Latest.Name)
}

func TestRevisionsAndOnlyRecent(t *testing.T) {
	s := newTestService(t)
	first := s.newGoal(t, s.alice, "draft")
	goalID := first.Goal.GoalID

	second, err := s.alice.NewGoalData(api.GoalDataNewProps{
		GoalID:                goalID,
		Name:                  "final",
		DurationEstimate:      i64(30),
		TimeUtilityFunctionID: first.TimeUtilityFunction.TimeUtilityFunctionID,
		Status:                api.GoalDataStatusSucceed,
	})
	require.NoError(t, err)
	require.NotNil(t, second.Goal.Latest)
	assert.Equal(t, second.GoalDataID, second.Goal.Latest.GoalDataID)
	assert.Equal(t, api.GoalDataStatusSucceed, second.Goal.Latest.Status)

	all, err := s.alice.ViewGoalData(api.GoalDataViewProps{
		GoalDataFilter: api.GoalDataFilter{GoalID: []int64{goalID}},
	})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, gd := range all {
		require.NotNil(t, gd.Goal.Latest)
		assert.Equal(t, second.GoalDataID, gd.Goal.Latest.GoalDataID, "embedded goals carry the latest revision")
	}

	recent, err := s.alice.ViewGoalData(api.GoalDataViewProps{
		GoalDataFilter: api.GoalDataFilter{GoalID: []int64{goalID}, OnlyRecent: true},
	})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.GoalDataID, recent[0].GoalDataID)

	goals, err := s.alice.ViewGoals(api.GoalViewProps{GoalFilter: api.GoalFilter{GoalID: []int64{goalID}}})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	require.NotNil(t, goals[0].Latest)
	assert.Equal(t, "final", goals[0].Latest.Name)
}

func TestActiveGoalDependencies(t *testing.T) {
	s := newTestService(t)
	goal := s.newGoal(t, s.alice, "goal")
	prerequisite := s.newGoal(t, s.alice, "prerequisite")

	link := func(active bool) {
		dependency, err := s.alice.NewGoalDependency(api.GoalDependencyNewProps{
			GoalID:          goal.Goal.GoalID,
			DependentGoalID: prerequisite.Goal.GoalID,
			Active:          active,
		})
		require.NoError(t, err)
		assert.Equal(t, goal.Goal.GoalID, dependency.Goal.GoalID)
		assert.Equal(t, prerequisite.Goal.GoalID, dependency.DependentGoal.GoalID)
		require.NotNil(t, dependency.DependentGoal.Latest)
		assert.Equal(t, "prerequisite", dependency.DependentGoal.Latest.Name)
	}

	link(true)
	active, err := s.alice.ActiveGoalDependencies(goal.Goal.GoalID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	link(false)
	active, err = s.alice.ActiveGoalDependencies(goal.Goal.GoalID)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.alice.ViewGoalDependencies(api.GoalDependencyViewProps{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestActiveGoalEntityTags(t *testing.T) {
	s := newTestService(t)
	goal := s.newGoal(t, s.alice, "call mom")
	person, err := s.alice.NewNamedEntity(api.NamedEntityNewProps{Name: "Mom", Kind: api.NamedEntityKindPerson})
	require.NoError(t, err)

	tag, err := s.alice.NewGoalEntityTag(api.GoalEntityTagNewProps{
		GoalID:        goal.Goal.GoalID,
		NamedEntityID: person.NamedEntity.NamedEntityID,
		Active:        true,
	})
	require.NoError(t, err)
	require.NotNil(t, tag.NamedEntity.Latest)
	assert.Equal(t, "Mom", tag.NamedEntity.Latest.Name)

	renamed, err := s.alice.NewNamedEntityData(api.NamedEntityDataNewProps{
		NamedEntityID: person.NamedEntity.NamedEntityID,
		Name:          "Mother",
		Kind:          api.NamedEntityKindPerson,
		Active:        true,
	})
	require.NoError(t, err)

	tags, err := s.alice.ActiveGoalEntityTags(goal.Goal.GoalID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.NotNil(t, tags[0].NamedEntity.Latest)
	assert.Equal(t, renamed.NamedEntityDataID, tags[0].NamedEntity.Latest.NamedEntityDataID)
	assert.Equal(t, "Mother", tags[0].NamedEntity.Latest.Name)
}

func TestGoalTemplates(t *testing.T) {
	s := newTestService(t)
	code, err := s.alice.NewUserGeneratedCode(api.UserGeneratedCodeNewProps{
		SourceCode: "fn main() {}",
		SourceLang: "rust",
		WasmCache:  []byte{0, 97, 115, 109},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 97, 115, 109}, code.WasmCache)

	template, err := s.alice.NewGoalTemplate(api.GoalTemplateNewProps{
		Name:                "weekly review",
		Utility:             3,
		UserGeneratedCodeID: code.UserGeneratedCodeID,
	})
	require.NoError(t, err)
	assert.True(t, template.Active)
	assert.Equal(t, code, template.UserGeneratedCode)
	require.NotNil(t, template.GoalTemplate.Latest)
	assert.Equal(t, template.GoalTemplateDataID, template.GoalTemplate.Latest.GoalTemplateDataID)

	pattern, err := s.alice.NewGoalTemplatePattern(api.GoalTemplatePatternNewProps{
		GoalTemplateID: template.GoalTemplate.GoalTemplateID,
		Pattern:        "review*",
		Active:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "review*", pattern.Pattern)

	_, err = s.bob.NewGoalTemplate(api.GoalTemplateNewProps{Name: "stolen", UserGeneratedCodeID: code.UserGeneratedCodeID})
	assertKind(t, err, api.ErrUserGeneratedCodeNonexistent)

	_, err = s.bob.NewGoalTemplatePattern(api.GoalTemplatePatternNewProps{
		GoalTemplateID: template.GoalTemplate.GoalTemplateID,
		Pattern:        "x",
	})
	assertKind(t, err, api.ErrGoalTemplateNonexistent)

	bobsCode, err := s.bob.NewUserGeneratedCode(api.UserGeneratedCodeNewProps{SourceCode: "x", SourceLang: "rust", WasmCache: []byte{1}})
	require.NoError(t, err)
	_, err = s.bob.NewGoalTemplateData(api.GoalTemplateDataNewProps{
		GoalTemplateID:      template.GoalTemplate.GoalTemplateID,
		Name:                "hijacked",
		UserGeneratedCodeID: bobsCode.UserGeneratedCodeID,
		Active:              true,
	})
	assertKind(t, err, api.ErrGoalTemplateNonexistent)

	revisions, err := s.alice.ViewGoalTemplateData(api.GoalTemplateDataViewProps{
		GoalTemplateDataFilter: api.GoalTemplateDataFilter{GoalTemplateID: []int64{template.GoalTemplate.GoalTemplateID}},
	})
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, "weekly review", revisions[0].Name)

	_, err = s.alice.NewGoalTemplateData(api.GoalTemplateDataNewProps{
		GoalTemplateID:      template.GoalTemplate.GoalTemplateID,
		Name:                "weekly review",
		DurationEstimate:    i64(0),
		UserGeneratedCodeID: code.UserGeneratedCodeID,
	})
	assertKind(t, err, api.ErrNegativeDuration)

	inactive, err := s.alice.NewGoalTemplateData(api.GoalTemplateDataNewProps{
		GoalTemplateID:      template.GoalTemplate.GoalTemplateID,
		Name:                "weekly review",
		UserGeneratedCodeID: code.UserGeneratedCodeID,
		Active:              false,
	})
	require.NoError(t, err)

	templates, err := s.alice.ViewGoalTemplates(api.GoalTemplateViewProps{})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.NotNil(t, templates[0].Latest)
	assert.Equal(t, inactive.GoalTemplateDataID, templates[0].Latest.GoalTemplateDataID)
	assert.False(t, templates[0].Latest.Active)

	patterns, err := s.alice.ViewGoalTemplatePatterns(api.GoalTemplatePatternViewProps{})
	require.NoError(t, err)
	assert.Len(t, patterns, 1)

	codes, err := s.alice.ViewUserGeneratedCode(api.UserGeneratedCodeViewProps{
		UserGeneratedCodeFilter: api.UserGeneratedCodeFilter{SourceLang: []string{"rust"}},
	})
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, code, codes[0])
}

func TestExternalEvents(t *testing.T) {
	s := newTestService(t)

	_, err := s.alice.NewExternalEvent(api.ExternalEventNewProps{Name: "bad", StartTime: -5, EndTime: 20})
	assertKind(t, err, api.ErrNegativeStartTime)

	event, err := s.alice.NewExternalEvent(api.ExternalEventNewProps{Name: "concert", StartTime: 100, EndTime: 200})
	require.NoError(t, err)
	assert.True(t, event.Active)

	moved, err := s.alice.NewExternalEventData(api.ExternalEventDataNewProps{
		ExternalEventID: event.ExternalEvent.ExternalEventID,
		Name:            "concert",
		StartTime:       300,
		EndTime:         400,
		Active:          true,
	})
	require.NoError(t, err)
	require.NotNil(t, moved.ExternalEvent.Latest)
	assert.Equal(t, int64(300), moved.ExternalEvent.Latest.StartTime)

	_, err = s.alice.NewExternalEventData(api.ExternalEventDataNewProps{
		ExternalEventID: event.ExternalEvent.ExternalEventID,
		Name:            "concert",
		StartTime:       400,
		EndTime:         300,
	})
	assertKind(t, err, api.ErrNegativeDuration)

	late, err := s.alice.ViewExternalEventData(api.ExternalEventDataViewProps{
		ExternalEventDataFilter: api.ExternalEventDataFilter{MinStartTime: i64(250)},
	})
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, moved.ExternalEventDataID, late[0].ExternalEventDataID)

	externalEvents, err := s.alice.ViewExternalEvents(api.ExternalEventViewProps{})
	require.NoError(t, err)
	require.Len(t, externalEvents, 1)
	assert.Equal(t, moved.ExternalEventDataID, externalEvents[0].Latest.ExternalEventDataID)
}

func TestViewCountAndOffset(t *testing.T) {
	s := newTestService(t)
	for i := 0; i < 5; i++ {
		s.newTimeUtilityFunction(t, s.alice)
	}
	tufs, err := s.alice.ViewTimeUtilityFunctions(api.TimeUtilityFunctionViewProps{
		TimeUtilityFunctionFilter: api.TimeUtilityFunctionFilter{Page: api.Page{Count: i64(2), Offset: i64(1)}},
	})
	require.NoError(t, err)
	require.Len(t, tufs, 2)
	assert.Equal(t, int64(2), tufs[0].TimeUtilityFunctionID)
	assert.Equal(t, int64(3), tufs[1].TimeUtilityFunctionID)
}

func TestAuthentication(t *testing.T) {
	s := newTestService(t)

	_, err := s.anonym.NewTimeUtilityFunction(api.TimeUtilityFunctionNewProps{StartTimes: []int64{}, Utils: []int64{}})
	assertKind(t, err, api.ErrUnauthorized)

	_, err = s.anonym.WithAPIKey("wrong").ViewGoals(api.GoalViewProps{})
	assertKind(t, err, api.ErrUnauthorized)
}

func TestDecodeErrors(t *testing.T) {
	s := newTestService(t)

	bodies := map[string]string{
		"not json":           `{"apiKey":`,
		"missing field":      `{"apiKey":"` + aliceKey + `","timeUtilityFunctionId":1}`,
		"wrong type":         `{"apiKey":"` + aliceKey + `","name":5,"timeUtilityFunctionId":1}`,
		"short time span":    `{"apiKey":"` + aliceKey + `","name":"x","timeUtilityFunctionId":1,"timeSpan":[1]}`,
		"unknown status":     `{"apiKey":"` + aliceKey + `","goalId":1,"name":"x","timeUtilityFunctionId":1,"status":"DONE"}`,
		"empty request body": ``,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			path := "/public/goal/new"
			if name == "unknown status" {
				path = "/public/goal_data/new"
			}
			var envelope api.Envelope
			status, err := s.anonym.RawPost(path, []byte(body), &envelope)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, api.ErrDecodeError, envelope.Err)
		})
	}
}

func TestUnknownRoutes(t *testing.T) {
	s := newTestService(t)

	var envelope api.Envelope
	status, err := s.anonym.RawPost("/public/nothing/new", []byte(`{}`), &envelope)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.ErrNotFound, envelope.Err)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/goal/new", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"Err":"METHOD_NOT_ALLOWED"}`, rec.Body.String())
}

func TestServiceRoutes(t *testing.T) {
	s := newTestService(t)

	info, err := s.anonym.Info()
	require.NoError(t, err)
	assert.Equal(t, api.Info{Service: "todo-app-service", VersionMajor: 1}, info)

	version, err := s.anonym.Version()
	require.NoError(t, err)
	assert.Equal(t, backend.Version, version)

	var health []byte
	status, err := s.anonym.RawGet("/health", &health)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", string(health))

	s.newTimeUtilityFunction(t, s.alice)
	var metrics []byte
	_, err = s.anonym.RawGet("/metrics", &metrics)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `todoapp_http_requests_total{code="200",route="/public/time_utility_function/new"} 1`)
	assert.Contains(t, string(metrics), "todoapp_http_request_duration_seconds")
}

type recordingPublisher struct {
	mutex         sync.Mutex
	notifications []events.Notification
}

func (p *recordingPublisher) Publish(ctx context.Context, notifications []events.Notification) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.notifications = append(p.notifications, notifications...)
	return nil
}

func (p *recordingPublisher) resources() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	var resources []string
	for _, n := range p.notifications {
		resources = append(resources, n.Resource)
	}
	return resources
}

func TestNotifications(t *testing.T) {
	publisher := &recordingPublisher{}
	s := newTestService(t, func(b *backend.Builder) {
		b.Publisher = publisher
	})
	ctx := context.Background()

	tuf := s.newTimeUtilityFunction(t, s.alice)
	span := api.TimeSpan{10, 20}
	_, err := s.alice.NewGoal(api.GoalNewProps{Name: "x", TimeUtilityFunctionID: tuf.TimeUtilityFunctionID, TimeSpan: &span})
	require.NoError(t, err)

	_, err = s.alice.NewGoal(api.GoalNewProps{Name: "x", TimeUtilityFunctionID: 999})
	assertKind(t, err, api.ErrTimeUtilityFunctionNonexistent)

	n, err := s.backend.ProcessNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"time_utility_function", "goal", "goal_data", "goal_event"}, publisher.resources())
	assert.Equal(t, tuf.TimeUtilityFunctionID, publisher.notifications[0].ResourceID)
	assert.Equal(t, events.OperationCreate, publisher.notifications[0].Operation)

	n, err = s.backend.ProcessNotifications(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserGeneratedCodeInKSS(t *testing.T) {
	base := t.TempDir()
	driver, err := kss.NewLocalFilesystem(base)
	require.NoError(t, err)
	s := newTestService(t, func(b *backend.Builder) {
		b.KSS = driver
	})

	wasm := []byte{0, 97, 115, 109, 1, 0, 0, 0}
	code, err := s.alice.NewUserGeneratedCode(api.UserGeneratedCodeNewProps{
		SourceCode: "(module)",
		SourceLang: "wat",
		WasmCache:  wasm,
	})
	require.NoError(t, err)
	assert.Equal(t, wasm, code.WasmCache)

	sum := sha256.Sum256(wasm)
	stored, err := driver.Get(context.Background(), "user_generated_code/"+hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	assert.Equal(t, wasm, stored)

	codes, err := s.alice.ViewUserGeneratedCode(api.UserGeneratedCodeViewProps{})
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, wasm, codes[0].WasmCache)

	template, err := s.alice.NewGoalTemplate(api.GoalTemplateNewProps{
		Name:                "compiled",
		UserGeneratedCodeID: code.UserGeneratedCodeID,
	})
	require.NoError(t, err)
	assert.Equal(t, wasm, template.UserGeneratedCode.WasmCache)
}

func TestCORS(t *testing.T) {
	s := newTestService(t, func(b *backend.Builder) {
		b.CORS = true
		b.SiteExternalURL = "https://app.example.com/"
	})

	r := httptest.NewRequest(http.MethodOptions, "/public/goal/view", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	_, err := s.alice.ViewGoals(api.GoalViewProps{})
	assert.NoError(t, err)
}
