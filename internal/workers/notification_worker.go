package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/joblinkhq/joblink/internal/models"
	mongorepo "github.com/joblinkhq/joblink/internal/repositories/mongo"
)

const (
	// NotificationStream is where application events enqueue dispatch work.
	NotificationStream = "notifications:stream"

	notificationGroup = "notification-workers"
)

// UserChannel is the pub/sub channel a user's websocket subscribes to.
func UserChannel(userID string) string {
	return "user:" + userID + ":notifications"
}

// NotificationWorkerPool drains the notification stream: each event is
// persisted as a Notification document and published to the addressed
// user's channel for live delivery. Dispatch is best-effort; failures
// are logged and the entry is acked so the stream never wedges.
type NotificationWorkerPool struct {
	Redis         *redis.Client
	Notifications mongorepo.NotificationRepository
	NumWorkers    int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *NotificationWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Notifications == nil {
		return errors.New("NotificationWorkerPool missing dependency: Redis/Notifications must be set")
	}
	if p.Stream == "" {
		p.Stream = NotificationStream
	}
	if p.Group == "" {
		p.Group = notificationGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *NotificationWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *NotificationWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	userID := getStr("user_id")
	message := getStr("message")
	if userID == "" || message == "" {
		return
	}
	applicationID := getStr("application_id")

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":       msg.ID,
		"user_id":        userID,
		"application_id": applicationID,
	})

	n := &models.Notification{
		ID:            uuid.NewString(),
		UserID:        userID,
		ApplicationID: applicationID,
		Message:       message,
		CreatedAt:     time.Now().UTC(),
	}

	if err := p.Notifications.Insert(ctx, n); err != nil {
		log.WithError(err).Error("notification persist failed")
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"type":         "notification",
		"notification": n,
	})
	if err := p.Redis.Publish(ctx, UserChannel(userID), string(payload)).Err(); err != nil {
		log.WithError(err).Warn("notification publish failed")
	}
}
