/*
Package events publishes change notifications for created entities.

Notifications are written to an outbox table within the same database
transaction which creates the entity, so a notification exists if and only
if the entity does. After commit, the outbox is triggered and a relay
publishes pending notifications to a Publisher, typically a kafka topic.
Successfully published notifications are deleted from the outbox, failed
ones are retried until their attempts are used up.
*/
package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/relabs-tech/todoapp/core/csql"
	"github.com/relabs-tech/todoapp/core/logger"
)

// Operation is a database operation
type Operation string

// OperationCreate is the only operation on append-only entities
const OperationCreate Operation = "create"

// Notification is a pending change notification
type Notification struct {
	Serial       int64           `json:"serial"`
	Resource     string          `json:"resource"`
	Operation    Operation       `json:"operation"`
	ResourceID   int64           `json:"resourceId"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    int64           `json:"createdAt"`
	AttemptsLeft int             `json:"-"`
}

// Publisher delivers notifications to interested parties
type Publisher interface {
	Publish(ctx context.Context, notifications []Notification) error
}

// BatchSize is the maximum number of notifications published at once
const BatchSize = 50

// Outbox stores notifications transactionally and relays them to a Publisher
type Outbox struct {
	db          *csql.DB
	publisher   Publisher
	maxAttempts int
	trigger     chan struct{}
	interval    time.Duration

	published prometheus.Counter
	failed    prometheus.Counter
}

// NewOutbox creates an outbox on db. A nil publisher disables notifications
// altogether: nothing is recorded and nothing is relayed. Metrics are
// registered with reg unless it is nil.
func NewOutbox(db *csql.DB, publisher Publisher, maxAttempts int, reg prometheus.Registerer) *Outbox {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	factory := promauto.With(reg)
	return &Outbox{
		db:          db,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		trigger:     make(chan struct{}, 1),
		interval:    30 * time.Second,
		published: factory.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_notifications_published_total",
			Help: "Number of change notifications published.",
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_notifications_failed_total",
			Help: "Number of failed attempts to publish a change notification.",
		}),
	}
}

// Enabled returns true if the outbox has a publisher
func (o *Outbox) Enabled() bool {
	return o != nil && o.publisher != nil
}

func (o *Outbox) table() string {
	return o.db.Table("_notification_")
}

// Migrate creates the outbox table if it does not exist yet
func (o *Outbox) Migrate(ctx context.Context) error {
	serial, payload := "BIGSERIAL PRIMARY KEY", "JSON"
	if o.db.Dialect == csql.SQLite {
		serial, payload = "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT"
	}
	_, err := o.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+o.table()+`
(serial `+serial+`,
resource TEXT NOT NULL,
operation TEXT NOT NULL,
resource_id BIGINT NOT NULL,
payload `+payload+` NOT NULL,
created_at BIGINT NOT NULL,
attempts_left INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("create outbox: %w", err)
	}
	return nil
}

// Record adds a notification about resource to the transaction tx. The
// notification becomes visible to the relay when tx commits. Call Trigger
// after the commit.
func (o *Outbox) Record(ctx context.Context, tx *sql.Tx, resource string, operation Operation, resourceID int64, payload interface{}) error {
	if !o.Enabled() {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	p := o.db.Dialect.Placeholder
	_, err = tx.ExecContext(ctx, "INSERT INTO "+o.table()+
		"(resource,operation,resource_id,payload,created_at,attempts_left) VALUES("+
		p(1)+","+p(2)+","+p(3)+","+p(4)+","+p(5)+","+p(6)+")",
		resource, string(operation), resourceID, string(data), time.Now().UnixMilli(), o.maxAttempts)
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// Trigger requests relay processing. It never blocks.
func (o *Outbox) Trigger() {
	if !o.Enabled() {
		return
	}
	select {
	case o.trigger <- struct{}{}:
	default:
	}
}

// Run relays notifications whenever the outbox is triggered, and
// periodically to pick up retries. It returns when ctx is done.
func (o *Outbox) Run(ctx context.Context) {
	if !o.Enabled() {
		return
	}
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.trigger:
		case <-ticker.C:
		}
		if _, err := o.ProcessNotifications(ctx); err != nil && ctx.Err() == nil {
			logger.LogEvent(ctx, logger.Event{
				Msg:      err.Error(),
				Source:   "outbox",
				Severity: logger.SeverityError,
			})
		}
	}
}

// ProcessNotifications publishes all pending notifications in batches and
// returns the number of successfully published ones. A failing batch ends
// processing; its notifications are retried later if they have attempts left.
func (o *Outbox) ProcessNotifications(ctx context.Context) (int, error) {
	if !o.Enabled() {
		return 0, nil
	}
	total := 0
	for {
		n, err := o.processBatch(ctx)
		total += n
		if err != nil || n == 0 {
			return total, err
		}
	}
}

// processBatch publishes one batch within one transaction. Postgres skips
// rows locked by concurrent relays.
func (o *Outbox) processBatch(ctx context.Context) (int, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := o.db.Dialect.Placeholder
	query := "SELECT serial, resource, operation, resource_id, payload, created_at, attempts_left FROM " +
		o.table() + " WHERE attempts_left > 0 ORDER BY serial LIMIT " + p(1)
	if o.db.Dialect == csql.Postgres {
		query += " FOR UPDATE SKIP LOCKED"
	}
	rows, err := tx.QueryContext(ctx, query, BatchSize)
	if err != nil {
		return 0, fmt.Errorf("retrieve notifications: %w", err)
	}
	var batch []Notification
	for rows.Next() {
		var (
			n       Notification
			payload []byte
		)
		if err = rows.Scan(&n.Serial, &n.Resource, &n.Operation, &n.ResourceID, &payload, &n.CreatedAt,
			&n.AttemptsLeft); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan notification: %w", err)
		}
		n.Payload = json.RawMessage(payload)
		batch = append(batch, n)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("retrieve notifications: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if publishErr := o.publisher.Publish(ctx, batch); publishErr != nil {
		o.failed.Add(float64(len(batch)))
		for _, n := range batch {
			if _, err = tx.ExecContext(ctx, "UPDATE "+o.table()+
				" SET attempts_left = attempts_left - 1 WHERE serial = "+p(1), n.Serial); err != nil {
				return 0, fmt.Errorf("reschedule notification #%d: %w", n.Serial, err)
			}
		}
		if err = tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit rescheduled notifications: %w", err)
		}
		return 0, fmt.Errorf("publish %d notifications: %w", len(batch), publishErr)
	}

	for _, n := range batch {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+o.table()+" WHERE serial = "+p(1), n.Serial); err != nil {
			return 0, fmt.Errorf("delete notification #%d: %w", n.Serial, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit published notifications: %w", err)
	}
	o.published.Add(float64(len(batch)))
	logger.FromContext(ctx).Debugf("published %d notifications", len(batch))
	return len(batch), nil
}

// Pending returns the number of notifications waiting to be published,
// including those without attempts left
func (o *Outbox) Pending(ctx context.Context) (int, error) {
	var n int
	err := o.db.QueryRowContext(ctx, "SELECT count(*) FROM "+o.table()).Scan(&n)
	return n, err
}
