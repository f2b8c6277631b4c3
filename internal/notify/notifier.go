// Package notify dispatches counter-party notifications. Dispatch is
// fire-and-forget: it runs after the workflow transaction commits and
// a delivery failure is logged, never surfaced to the caller.
package notify

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	logrus "github.com/sirupsen/logrus"
)

// AMQPNotifier publishes events to a queue consumed by the external
// SMS/notification service.
type AMQPNotifier struct {
	conn  *amqp.Connection
	chn   *amqp.Channel
	queue string
}

// NewAMQPNotifier dials the broker and declares the queue. Callers
// should fall back to the log notifier when no broker is configured.
func NewAMQPNotifier(url, queue string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := chn.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		chn.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPNotifier{conn: conn, chn: chn, queue: queue}, nil
}

func (n *AMQPNotifier) Notify(event string, payload map[string]any) {
	body, err := json.Marshal(map[string]any{"event": event, "payload": payload})
	if err != nil {
		logrus.WithError(err).WithField("event", event).Warn("dropping notification: marshal failed")
		return
	}
	err = n.chn.Publish("", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		logrus.WithError(err).WithField("event", event).Warn("dropping notification: publish failed")
	}
}

func (n *AMQPNotifier) Close() {
	if n.chn != nil {
		n.chn.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}

// LogNotifier writes notifications to the application log. Used when
// no broker is configured and in tests.
type LogNotifier struct{}

func (LogNotifier) Notify(event string, payload map[string]any) {
	logrus.WithFields(logrus.Fields{"event": event, "payload": payload}).Info("notification dispatched")
}
