package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"wordler/models"

	"github.com/bwmarrin/discordgo"
)

const resultImageName = "result.png"

// NotificationSource is the part of the notification service the delivery
// loop consumes
type NotificationSource interface {
	PendingForAllGroups(ctx context.Context) ([]*models.GroupedNotification, error)
	MarkProcessed(ctx context.Context, ids []int64) (int64, error)
}

// MessageSender posts a message into a channel. *discordgo.Session
// satisfies it.
type MessageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Deliverer polls aggregated results and posts them into their channels
type Deliverer struct {
	source  NotificationSource
	sender  MessageSender
	limiter *rate.Limiter
}

// NewDeliverer creates a deliverer that waits on limiter before every post
func NewDeliverer(source NotificationSource, sender MessageSender, limiter *rate.Limiter) *Deliverer {
	return &Deliverer{
		source:  source,
		sender:  sender,
		limiter: limiter,
	}
}

// Run delivers once per interval until ctx is cancelled
func (d *Deliverer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.WithField("interval", interval).Info("Result delivery started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Result delivery stopped")
			return
		case <-ticker.C:
			if _, err := d.DeliverOnce(ctx); err != nil && ctx.Err() == nil {
				log.Errorf("Result delivery failed: %v", err)
			}
		}
	}
}

// DeliverOnce posts every pending payload and marks the delivered
// notifications processed. Payloads that fail to post stay pending and are
// retried on the next pass. Returns the number of payloads posted.
func (d *Deliverer) DeliverOnce(ctx context.Context) (int, error) {
	payloads, err := d.source.PendingForAllGroups(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate pending results: %w", err)
	}

	var delivered []int64
	posted := 0
	for _, payload := range payloads {
		if err := d.limiter.Wait(ctx); err != nil {
			break
		}
		if err := d.post(payload); err != nil {
			log.WithFields(log.Fields{
				"destinationId": payload.DestinationID,
				"channelId":     payload.ChannelID,
			}).Errorf("Failed to post results: %v", err)
			continue
		}
		posted++
		delivered = append(delivered, payload.NotificationIDs...)
	}

	if len(delivered) == 0 {
		return posted, ctx.Err()
	}

	// Marking must survive a shutdown that interrupted the loop
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := d.source.MarkProcessed(markCtx, delivered); err != nil {
		return posted, fmt.Errorf("failed to mark %d notifications processed: %w", len(delivered), err)
	}

	log.WithFields(log.Fields{
		"payloads":      posted,
		"notifications": len(delivered),
	}).Info("Delivered results")
	return posted, nil
}

func (d *Deliverer) post(payload *models.GroupedNotification) error {
	msg := &discordgo.MessageSend{
		Content:         payload.Text,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if len(payload.Image) > 0 {
		msg.Files = []*discordgo.File{{
			Name:        resultImageName,
			ContentType: "image/png",
			Reader:      bytes.NewReader(payload.Image),
		}}
	}

	_, err := d.sender.ChannelMessageSendComplex(strconv.FormatInt(payload.ChannelID, 10), msg)
	return err
}
