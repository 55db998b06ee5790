// Package test contains integration tests which run the backend against
// Postgres and Kafka in docker containers. They are skipped unless
// TODOAPP_INTEGRATION is set.
package test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/relabs-tech/todoapp/core/access"
	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/backend"
	"github.com/relabs-tech/todoapp/core/client"
	"github.com/relabs-tech/todoapp/core/csql"
	"github.com/relabs-tech/todoapp/core/events"
	"github.com/relabs-tech/todoapp/core/store"
)

const (
	notificationTopic = "todo_app_notification"
	aliceKey          = "alice-api-key"
	bobKey            = "bob-api-key"
)

// IntegrationTestSuite starts Postgres, Zookeeper and Kafka and serves a
// backend on a random local port
type IntegrationTestSuite struct {
	suite.Suite
	*backend.Backend

	db        *csql.DB
	publisher *events.KafkaPublisher
	srv       *http.Server
	cancel    context.CancelFunc

	dockerNetwork *testcontainers.DockerNetwork
	containers    []testcontainers.Container
	kafkaAddr     string

	alice client.Client
	bob   client.Client
}

func (s *IntegrationTestSuite) start(ctx context.Context, req testcontainers.ContainerRequest) testcontainers.Container {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.containers = append(s.containers, c)
	return c
}

func (s *IntegrationTestSuite) endpoint(ctx context.Context, c testcontainers.Container, port nat.Port) (string, string) {
	host, err := c.Host(ctx)
	s.Require().NoError(err)
	mapped, err := c.MappedPort(ctx, port)
	s.Require().NoError(err)
	return host, mapped.Port()
}

func (s *IntegrationTestSuite) createTopic(topic string, numPartitions int) {
	conn, err := kafka.Dial("tcp", s.kafkaAddr)
	s.Require().NoError(err)
	defer conn.Close()
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: 1,
	})
	s.Require().NoError(err, "failed to create topic %s", topic)
}

func (s *IntegrationTestSuite) SetupSuite() {
	if os.Getenv("TODOAPP_INTEGRATION") == "" {
		s.T().Skip("set TODOAPP_INTEGRATION to run integration tests")
	}
	ctx := context.Background()

	dockerNet, err := network.New(ctx)
	s.Require().NoError(err)
	s.dockerNetwork = dockerNet
	networkName := dockerNet.Name

	postgresUser, postgresPassword, postgresDB := "testuser", "testpass", "testdb"
	pgC := s.start(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		Networks:       []string{networkName},
		NetworkAliases: map[string][]string{networkName: {"postgres"}},
		WaitingFor:     wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	})
	pgHost, pgPort := s.endpoint(ctx, pgC, "5432/tcp")

	s.start(ctx, testcontainers.ContainerRequest{
		Image:        "confluentinc/cp-zookeeper:7.5.0",
		ExposedPorts: []string{"2181/tcp"},
		Env: map[string]string{
			"ZOOKEEPER_CLIENT_PORT": "2181",
			"ZOOKEEPER_TICK_TIME":   "2000",
		},
		WaitingFor:     wait.ForListeningPort("2181/tcp"),
		Networks:       []string{networkName},
		NetworkAliases: map[string][]string{networkName: {"zookeeper"}},
	})

	kafkaC := s.start(ctx, testcontainers.ContainerRequest{
		Image:        "confluentinc/cp-kafka:7.5.0",
		ExposedPorts: []string{"9092:9092/tcp"},
		Env: map[string]string{
			"KAFKA_BROKER_ID":                        "1",
			"KAFKA_ZOOKEEPER_CONNECT":                "zookeeper:2181",
			"KAFKA_LISTENERS":                        "PLAINTEXT://0.0.0.0:9092,INTERNAL://0.0.0.0:9093",
			"KAFKA_ADVERTISED_LISTENERS":             "PLAINTEXT://localhost:9092,INTERNAL://kafka:9093",
			"KAFKA_LISTENER_SECURITY_PROTOCOL_MAP":   "PLAINTEXT:PLAINTEXT,INTERNAL:PLAINTEXT",
			"KAFKA_INTER_BROKER_LISTENER_NAME":       "INTERNAL",
			"KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR": "1",
		},
		WaitingFor:     wait.ForLog("started (kafka.server.KafkaServer)"),
		Networks:       []string{networkName},
		NetworkAliases: map[string][]string{networkName: {"kafka"}},
	})
	kafkaHost, kafkaPort := s.endpoint(ctx, kafkaC, "9092/tcp")
	s.kafkaAddr = net.JoinHostPort(kafkaHost, kafkaPort)
	s.createTopic(notificationTopic, 1)

	s.db, err = csql.OpenPostgres(ctx, fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		pgHost, pgPort, postgresUser, postgresDB), postgresPassword, "todoapp_test")
	s.Require().NoError(err)

	auth := access.NewStaticAuthService()
	auth.Add(aliceKey, api.User{UserID: 1, CreationTime: 10})
	auth.Add(bobKey, api.User{UserID: 2, CreationTime: 20})

	s.publisher = events.NewKafkaPublisher([]string{s.kafkaAddr}, notificationTopic)
	router := mux.NewRouter()
	s.Backend = backend.New(&backend.Builder{
		Store:       store.New(s.db),
		AuthService: access.NewUserCache(auth, time.Minute),
		Router:      router,
		Publisher:   s.publisher,
		Registry:    prometheus.NewRegistry(),
	})

	var runCtx context.Context
	runCtx, s.cancel = context.WithCancel(ctx)
	go s.RunNotifications(runCtx)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	s.srv = &http.Server{Handler: router}
	go func() {
		if err := s.srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.T().Errorf("failed to serve: %v", err)
		}
	}()

	c := client.NewWithURL("http://" + listener.Addr().String())
	s.alice = c.WithAPIKey(aliceKey)
	s.bob = c.WithAPIKey(bobKey)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.cancel != nil {
		s.cancel()
	}
	if s.srv != nil {
		s.Require().NoError(s.srv.Shutdown(ctx))
	}
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.db != nil {
		s.db.ClearSchema(ctx)
		s.db.Close()
	}
	for i := len(s.containers) - 1; i >= 0; i-- {
		s.Require().NoError(s.containers[i].Terminate(ctx))
	}
	if s.dockerNetwork != nil {
		s.Require().NoError(s.dockerNetwork.Remove(ctx))
	}
}
