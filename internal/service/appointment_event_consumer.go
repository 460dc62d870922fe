package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	consumerReadCount  = 32
	consumerReadBlock  = 2 * time.Second
	consumerRetryDelay = time.Second
)

// EventHandler processes one received event. Returning an error leaves the entry pending.
type EventHandler func(ctx context.Context, event *entity.AppointmentEvent) error

// AppointmentEventConsumer reads every partition stream through a Redis consumer group.
// Entries are acknowledged only after the handler succeeds, so delivery is at-least-once.
type AppointmentEventConsumer struct {
	client   *redis.Client
	log      *logrus.Logger
	streams  []string
	group    string
	consumer string
	handler  EventHandler
	block    time.Duration
}

func NewAppointmentEventConsumer(
	client *redis.Client,
	log *logrus.Logger,
	streams []string,
	group, consumer string,
	handler EventHandler,
) *AppointmentEventConsumer {
	c := &AppointmentEventConsumer{
		client:   client,
		log:      log,
		streams:  streams,
		group:    group,
		consumer: consumer,
		handler:  handler,
		block:    consumerReadBlock,
	}
	if c.handler == nil {
		c.handler = c.logEvent
	}
	return c
}

// Run consumes until ctx is canceled.
func (c *AppointmentEventConsumer) Run(ctx context.Context) error {
	if err := c.ensureGroups(ctx); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"group":    c.group,
		"consumer": c.consumer,
		"streams":  c.streams,
	}).Info("Appointment event consumer started")

	for {
		if ctx.Err() != nil {
			c.log.Info("Appointment event consumer stopped")
			return nil
		}

		if _, err := c.poll(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.log.Warnf("Failed to read appointment events: %+v", err)
			select {
			case <-time.After(consumerRetryDelay):
			case <-ctx.Done():
			}
		}
	}
}

// ensureGroups creates the consumer group on every stream, creating streams as needed.
func (c *AppointmentEventConsumer) ensureGroups(ctx context.Context) error {
	for _, stream := range c.streams {
		err := c.client.XGroupCreateMkStream(ctx, stream, c.group, "0").Err()
		if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return err
		}
	}
	return nil
}

// poll first retries this consumer's pending backlog, then reads one batch of new entries.
// It returns how many entries were acknowledged.
func (c *AppointmentEventConsumer) poll(ctx context.Context) (int, error) {
	// "0" replays entries delivered to this consumer but never acknowledged
	backlog, err := c.read(ctx, "0", -1)
	if err != nil {
		return 0, err
	}
	acked := c.process(ctx, backlog)

	fresh, err := c.read(ctx, ">", c.block)
	if err != nil {
		return acked, err
	}
	return acked + c.process(ctx, fresh), nil
}

// read issues XREADGROUP from id on every stream. A negative block returns immediately.
func (c *AppointmentEventConsumer) read(ctx context.Context, id string, block time.Duration) ([]redis.XStream, error) {
	args := make([]string, 0, len(c.streams)*2)
	args = append(args, c.streams...)
	for range c.streams {
		args = append(args, id)
	}

	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  args,
		Count:    consumerReadCount,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (c *AppointmentEventConsumer) process(ctx context.Context, result []redis.XStream) int {
	acked := 0
	for _, stream := range result {
		for _, message := range stream.Messages {
			if !c.handle(ctx, stream.Stream, message) {
				continue
			}
			if err := c.client.XAck(ctx, stream.Stream, c.group, message.ID).Err(); err != nil {
				c.log.Warnf("Failed to ack %s/%s: %+v", stream.Stream, message.ID, err)
				continue
			}
			acked++
		}
	}
	return acked
}

// handle reports whether the entry may be acknowledged. Undecodable entries, and backlog
// entries already trimmed from the stream, are acknowledged so they do not block the group.
func (c *AppointmentEventConsumer) handle(ctx context.Context, stream string, message redis.XMessage) bool {
	fields := logrus.Fields{"stream": stream, "message_id": message.ID}

	raw, ok := message.Values[streamFieldPayload].(string)
	if !ok {
		c.log.WithFields(fields).Error("Discarding event without payload")
		return true
	}

	var event entity.AppointmentEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		c.log.WithFields(fields).Errorf("Discarding undecodable event: %+v", err)
		return true
	}

	if err := c.handler(ctx, &event); err != nil {
		c.log.WithFields(fields).Warnf("Event handler failed, leaving pending: %+v", err)
		return false
	}
	return true
}

func (c *AppointmentEventConsumer) logEvent(_ context.Context, event *entity.AppointmentEvent) error {
	c.log.WithFields(logrus.Fields{
		"event_id":       event.EventID,
		"event_type":     event.EventType,
		"appointment_id": event.AppointmentID,
		"status_code":    event.StatusCode,
		"performed_by":   event.PerformedBy,
	}).Info("Received appointment event")
	return nil
}
