package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/todoapp/core/kss"
)

func TestServiceLoad(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("KSS_DRIVER", "AWSS3")
	t.Setenv("KSS_KEY_PREFIX", "staging/")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_BUCKET", "todo-app")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")

	s := &Service{}
	require.NoError(t, s.load(rootCmd))
	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, "postgres", s.DBDriver)

	config := s.kssConfiguration()
	assert.Equal(t, kss.DriverTypeAWSS3, config.DriverType)
	require.NotNil(t, config.S3Configuration)
	assert.Equal(t, "staging/", config.S3Configuration.KeyPrefix)
	assert.Equal(t, "todo-app", config.S3Configuration.AWSBucketName)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, s.kafkaBrokers())
}

func TestServiceLoadRejectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	assert.Error(t, (&Service{}).load(rootCmd))
}
