package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/todoapp/core/csql"
)

type recordingPublisher struct {
	mutex     sync.Mutex
	fail      bool
	published []Notification
}

func (p *recordingPublisher) Publish(ctx context.Context, notifications []Notification) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, notifications...)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.published)
}

func newTestOutbox(t *testing.T, publisher Publisher, maxAttempts int) (*Outbox, *csql.DB) {
	t.Helper()
	db, err := csql.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	o := NewOutbox(db, publisher, maxAttempts, prometheus.NewRegistry())
	require.NoError(t, o.Migrate(context.Background()))
	return o, db
}

func record(t *testing.T, o *Outbox, db *csql.DB, resource string, id int64, commit bool) {
	t.Helper()
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, o.Record(ctx, tx, resource, OperationCreate, id, map[string]int64{resource + "Id": id}))
	if commit {
		require.NoError(t, tx.Commit())
	} else {
		require.NoError(t, tx.Rollback())
	}
}

func TestOutboxPublishesCommittedNotifications(t *testing.T) {
	publisher := &recordingPublisher{}
	o, db := newTestOutbox(t, publisher, 3)
	ctx := context.Background()

	record(t, o, db, "goal", 1, true)
	record(t, o, db, "goal", 2, false)
	record(t, o, db, "goal_data", 1, true)

	n, err := o.ProcessNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, publisher.published, 2)
	first := publisher.published[0]
	assert.Equal(t, "goal", first.Resource)
	assert.Equal(t, OperationCreate, first.Operation)
	assert.Equal(t, int64(1), first.ResourceID)
	assert.JSONEq(t, `{"goalId":1}`, string(first.Payload))
	assert.Equal(t, "goal_data", publisher.published[1].Resource)

	pending, err := o.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, float64(2), testutil.ToFloat64(o.published))
}

func TestOutboxRetriesUntilAttemptsAreUsedUp(t *testing.T) {
	publisher := &recordingPublisher{fail: true}
	o, db := newTestOutbox(t, publisher, 2)
	ctx := context.Background()

	record(t, o, db, "goal", 1, true)

	for i := 0; i < 3; i++ {
		_, err := o.ProcessNotifications(ctx)
		if i < 2 {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(o.failed))

	publisher.fail = false
	n, err := o.ProcessNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pending, err := o.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestOutboxWithoutPublisher(t *testing.T) {
	o, db := newTestOutbox(t, nil, 3)
	assert.False(t, o.Enabled())

	record(t, o, db, "goal", 1, true)
	o.Trigger()

	pending, err := o.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

func TestOutboxRunRelaysOnTrigger(t *testing.T) {
	publisher := &recordingPublisher{}
	o, db := newTestOutbox(t, publisher, 3)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	record(t, o, db, "named_entity", 4, true)
	o.Trigger()

	assert.Eventually(t, func() bool { return publisher.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
