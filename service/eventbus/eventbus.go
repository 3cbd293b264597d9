// Package eventbus publishes engine events. Subjects are
// "<prefix>.<objectId>" so subscribers can follow one listing or all of them.
package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain/event"
)

const DefaultSubjectPrefix = "sale.events"

var met = metrics.New("eventbus")

// Conn is the part of *nats.Conn the publisher uses
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Connect dials nats and keeps reconnecting forever
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("saleengine"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Log().WithField("err", err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Log().WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
	)
}

func NewNats(conn Conn, subjectPrefix string) event.Publisher {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	return &natsPublisher{conn: conn, prefix: subjectPrefix}
}

type natsPublisher struct {
	conn   Conn
	prefix string
}

func Subject(prefix, objectID string) string {
	return fmt.Sprintf("%s.%s", prefix, objectID)
}

// Publish sends every event even when one of them fails, the first error is returned
func (p *natsPublisher) Publish(c ctx.Ctx, events ...event.Event) error {
	var first error
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			c.WithFields(log.Fields{"type": e.Type, "err": err}).Error("json.Marshal failed")
			if first == nil {
				first = err
			}
			continue
		}
		if err := p.conn.Publish(Subject(p.prefix, e.ObjectID), data); err != nil {
			c.WithFields(log.Fields{"type": e.Type, "objectId": e.ObjectID, "err": err}).Error("conn.Publish failed")
			met.BumpSum("publish.err", 1, "type", string(e.Type))
			if first == nil {
				first = err
			}
			continue
		}
		met.BumpSum("publish", 1, "type", string(e.Type))
	}
	return first
}

func (p *natsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Log().WithField("err", err).Warn("conn.Drain failed")
	}
}

// NewLog writes events to the log, used when nats.url is empty
func NewLog() event.Publisher {
	return logPublisher{}
}

type logPublisher struct{}

func (logPublisher) Publish(c ctx.Ctx, events ...event.Event) error {
	for _, e := range events {
		c.WithFields(log.Fields{"type": e.Type, "objectId": e.ObjectID, "eventId": e.ID}).Info("event")
	}
	return nil
}

func (logPublisher) Close() {}
