package queue

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// AMQPQueue publishes campaign run jobs to RabbitMQ so the dispatcher can
// live in a separate worker process.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &AMQPQueue{conn: conn, ch: ch}, nil
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Publish marshals the payload as JSON onto a durable queue.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	declared, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return q.ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

const maxDeliveryRetries = 3

// nextAttempt reads the x-retry-count header and reports the attempt number
// the message is about to make, and whether it is still under the retry cap.
// A missing or malformed header counts as the first failure.
func nextAttempt(headers amqp.Table) (int32, bool) {
	var count int32
	if v, ok := headers["x-retry-count"].(int32); ok {
		count = v
	}
	return count + 1, count < maxDeliveryRetries
}

// Subscribe consumes the topic and feeds decoded CampaignRunJob payloads to
// the handler. Failed handlers are retried up to 3 times; a plain Nack
// requeue would carry the original headers and loop forever, so the message
// is republished with an incremented x-retry-count instead.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	declared, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	msgs, err := q.ch.Consume(
		declared.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			var job CampaignRunJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				logrus.Warnf("invalid job: %v", err)
				d.Ack(false)
				continue
			}

			if err := handler(job); err != nil {
				attempt, retry := nextAttempt(d.Headers)
				if !retry {
					logrus.Errorf("dropping job after %d attempts: %v", maxDeliveryRetries+1, err)
					d.Ack(false)
					continue
				}
				logrus.Warnf("failed to process job (attempt %d): %v", attempt, err)
				if perr := q.ch.Publish(
					"",
					declared.Name,
					false,
					false,
					amqp.Publishing{
						ContentType:  "application/json",
						DeliveryMode: amqp.Persistent,
						Headers:      amqp.Table{"x-retry-count": attempt},
						Body:         d.Body,
					},
				); perr != nil {
					logrus.Errorf("failed to requeue job: %v", perr)
					d.Nack(false, true)
					continue
				}
			}

			d.Ack(false)
		}
	}()

	return nil
}

func (q *AMQPQueue) Close() {
	q.ch.Close()
	q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
