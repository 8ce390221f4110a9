package notifiers

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushService delivers web/mobile push through Firebase Cloud Messaging.
// Constructed once at startup and injected; when no credentials are
// configured the service is disabled and Send is a no-op.
type PushService struct {
	logger *slog.Logger
	client *messaging.Client
}

type PushResult struct {
	SuccessCount int
	FailureCount int
	// GoneTokens are tokens the provider reported as unregistered. The
	// caller prunes their subscriptions.
	GoneTokens []string
}

func NewPushService(ctx context.Context, logger *slog.Logger, credentialsJSON string) (*PushService, error) {
	if credentialsJSON == "" {
		logger.Info("push notifications disabled, no Firebase credentials configured")
		return &PushService{logger: logger}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("create messaging client: %w", err)
	}

	return &PushService{logger: logger, client: client}, nil
}

func (s *PushService) Enabled() bool {
	return s.client != nil
}

// Send pushes the message to every token, collecting tokens the provider no
// longer recognizes so the caller can drop them.
func (s *PushService) Send(ctx context.Context, tokens []string, msg Message, targetURL string) PushResult {
	result := PushResult{}
	if s.client == nil {
		return result
	}

	payload := map[string]string{"type": string(msg.Type)}
	if targetURL != "" {
		payload["url"] = targetURL
	}

	for _, token := range tokens {
		message := &messaging.Message{
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data:  payload,
			Token: token,
		}

		_, err := s.client.Send(ctx, message)
		if err != nil {
			result.FailureCount++
			if messaging.IsUnregistered(err) {
				result.GoneTokens = append(result.GoneTokens, token)
				continue
			}
			s.logger.Error("send push", "error", err)
			continue
		}
		result.SuccessCount++
	}

	return result
}
