package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/logging"
)

// messageChannel is the NOTIFY channel the insert trigger publishes to.
// Payloads are row_to_json of the inserted message row, so they decode
// straight into models.Message.
const messageChannel = "message_inserts"

const eventBufferSize = 64

// pgSubscription is the connected-mode push feed: a dedicated connection
// sits in LISTEN and forwards inserts addressed to one recipient. Events
// for other recipients are dropped at this layer so consumers only ever
// see rows for the tree they are watching.
type pgSubscription struct {
	conn        *pgx.Conn
	recipientID string
	events      chan models.Message
	cancel      context.CancelFunc
	closeOnce   sync.Once
	logger      logging.Logger
}

// SubscribeInserts opens a push feed for messages addressed to recipientID.
// The feed uses its own connection because a listening connection cannot
// serve queries concurrently.
func (s *PostgresStore) SubscribeInserts(ctx context.Context, recipientID string) (Subscription, error) {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return nil, s.mapError(err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+messageChannel); err != nil {
		conn.Close(ctx)
		return nil, s.mapError(err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	sub := &pgSubscription{
		conn:        conn,
		recipientID: recipientID,
		events:      make(chan models.Message, eventBufferSize),
		cancel:      cancel,
		logger:      s.logger,
	}

	go sub.loop(loopCtx)

	return sub, nil
}

func (s *pgSubscription) loop(ctx context.Context) {
	defer close(s.events)

	for {
		notification, err := s.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn(ctx, "push feed closed", "error", err)
			}
			return
		}

		var m models.Message
		if err := json.Unmarshal([]byte(notification.Payload), &m); err != nil {
			s.logger.Warn(ctx, "undecodable push payload", "error", err)
			continue
		}

		if m.RecipientID != s.recipientID {
			continue
		}

		// Drop rather than block: a stalled consumer must not wedge the
		// listening connection. A dropped event is recovered on the next
		// full fetch.
		select {
		case s.events <- m:
		default:
			s.logger.Warn(ctx, "push feed buffer full, dropping event", "message_id", m.ID)
		}
	}
}

func (s *pgSubscription) Events() <-chan models.Message {
	return s.events
}

func (s *pgSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.conn.Close(context.Background())
	})
	if err != nil {
		return fmt.Errorf("closing push feed: %w", err)
	}
	return nil
}
