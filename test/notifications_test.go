package test

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/events"
)

type NotificationsTestSuite struct {
	IntegrationTestSuite
}

func TestNotificationsTestSuite(t *testing.T) {
	suite.Run(t, &NotificationsTestSuite{})
}

func (s *NotificationsTestSuite) TestGoalCreationIsPublished() {
	tuf, err := s.alice.NewTimeUtilityFunction(api.TimeUtilityFunctionNewProps{
		StartTimes: []int64{0, 100},
		Utils:      []int64{1, 0},
	})
	s.Require().NoError(err)
	span := api.TimeSpan{10, 20}
	goalData, err := s.alice.NewGoal(api.GoalNewProps{
		Name:                  "publish me",
		TimeUtilityFunctionID: tuf.TimeUtilityFunctionID,
		TimeSpan:              &span,
	})
	s.Require().NoError(err)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{s.kafkaAddr},
		Topic:     notificationTopic,
		Partition: 0,
		MaxWait:   time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var received []events.Notification
	for len(received) < 4 {
		msg, err := reader.ReadMessage(ctx)
		s.Require().NoError(err)
		var n events.Notification
		s.Require().NoError(json.Unmarshal(msg.Value, &n))
		received = append(received, n)
	}

	resources := make([]string, len(received))
	for i, n := range received {
		resources[i] = n.Resource
		s.Equal(events.OperationCreate, n.Operation)
	}
	s.Equal([]string{"time_utility_function", "goal", "goal_data", "goal_event"}, resources)
	s.Equal(goalData.Goal.GoalID, received[1].ResourceID)
	s.Equal(goalData.GoalDataID, received[2].ResourceID)
}

func (s *NotificationsTestSuite) TestPostgresViewsAreScopedToTheCaller() {
	_, err := s.alice.NewNamedEntity(api.NamedEntityNewProps{Name: "Hamburg", Kind: api.NamedEntityKindLocation})
	s.Require().NoError(err)

	bobs, err := s.bob.ViewNamedEntities(api.NamedEntityViewProps{})
	s.Require().NoError(err)
	s.Empty(bobs)

	alices, err := s.alice.ViewNamedEntities(api.NamedEntityViewProps{})
	s.Require().NoError(err)
	s.NotEmpty(alices)
}

func (s *NotificationsTestSuite) TestPostgresColumnsAndRevisions() {
	tuf, err := s.alice.NewTimeUtilityFunction(api.TimeUtilityFunctionNewProps{
		StartTimes: []int64{0, 3600, 7200},
		Utils:      []int64{10, 5, 0},
	})
	s.Require().NoError(err)
	tufs, err := s.alice.ViewTimeUtilityFunctions(api.TimeUtilityFunctionViewProps{
		TimeUtilityFunctionFilter: api.TimeUtilityFunctionFilter{TimeUtilityFunctionID: []int64{tuf.TimeUtilityFunctionID}},
	})
	s.Require().NoError(err)
	s.Require().Len(tufs, 1)
	s.Equal([]int64{0, 3600, 7200}, tufs[0].StartTimes)
	s.Equal([]int64{10, 5, 0}, tufs[0].Utils)

	wasm := []byte{0, 97, 115, 109, 1, 0, 0, 0}
	code, err := s.alice.NewUserGeneratedCode(api.UserGeneratedCodeNewProps{SourceCode: "(module)", SourceLang: "wat", WasmCache: wasm})
	s.Require().NoError(err)
	s.Equal(wasm, code.WasmCache)

	entity, err := s.alice.NewNamedEntity(api.NamedEntityNewProps{Name: "Anna", Kind: api.NamedEntityKindPerson})
	s.Require().NoError(err)
	entityID := entity.NamedEntity.NamedEntityID
	renamed, err := s.alice.NewNamedEntityData(api.NamedEntityDataNewProps{
		NamedEntityID: entityID,
		Name:          "Anna B.",
		Kind:          api.NamedEntityKindPerson,
		Active:        true,
	})
	s.Require().NoError(err)

	recent, err := s.alice.ViewNamedEntityData(api.NamedEntityDataViewProps{
		NamedEntityDataFilter: api.NamedEntityDataFilter{NamedEntityID: []int64{entityID}, OnlyRecent: true},
	})
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(renamed.NamedEntityDataID, recent[0].NamedEntityDataID)
	s.Require().NotNil(recent[0].NamedEntity.Latest)
	s.Equal("Anna B.", recent[0].NamedEntity.Latest.Name)
}
