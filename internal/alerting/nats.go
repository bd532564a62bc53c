// Package alerting publishes critical alerts to NATS for downstream
// consumers (notification fan-out, andon boards). The publisher is
// optional: the service runs with a nil *Publisher when no broker is
// configured.
package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/iceplantengineering/paperplant/internal/models"
)

// CriticalAlertSubject is the subject critical alerts are published on.
const CriticalAlertSubject = "mill.alerts.critical"

// Publisher wraps a NATS connection for alert publication.
type Publisher struct {
	nc  *nats.Conn
	url string
}

// NewPublisher connects to NATS with unbounded reconnects.
func NewPublisher(url string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("paperplant-dashboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats reconnected to %s", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc, url: url}, nil
}

// PublishCritical sends one message per critical alert. Publication is
// best-effort; a broker outage never fails the originating request.
func (p *Publisher) PublishCritical(ctx context.Context, alerts []models.Alert) error {
	if p.nc == nil || p.nc.IsClosed() {
		return fmt.Errorf("nats not connected")
	}
	for _, a := range alerts {
		if a.Level != models.LevelCritical {
			continue
		}
		payload, err := json.Marshal(a)
		if err != nil {
			return err
		}
		if err := p.nc.Publish(CriticalAlertSubject, payload); err != nil {
			return err
		}
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}
