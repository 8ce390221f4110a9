package notifiers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/models"
)

type UserStore interface {
	GetUserByID(id uuid.UUID) (*data.User, error)
	GetSettings(userID uuid.UUID) (data.NotificationSettings, error)
}

type NotificationStore interface {
	CreateNotification(n data.Notification) (bool, error)
}

type PushStore interface {
	GetTokensByUserID(userID uuid.UUID) ([]string, error)
	DeleteTokens(tokens []string) error
}

type EmailSender interface {
	AlertEmail(email string, msg Message) (models.Email, error)
	Send(mail models.Email) error
}

type PushSender interface {
	Enabled() bool
	Send(ctx context.Context, tokens []string, msg Message, targetURL string) PushResult
}

// Dispatcher projects one message across the user's enabled channels. The
// in-app write doubles as the dedup ledger insert, so it is always attempted
// and its failure fails the whole Send; email and push failures are logged
// and reflected in the ChannelResult only.
type Dispatcher struct {
	logger  *slog.Logger
	users   UserStore
	records NotificationStore
	pushes  PushStore
	mailer  EmailSender
	push    PushSender
	appBase string
}

func NewDispatcher(logger *slog.Logger, users UserStore, records NotificationStore, pushes PushStore, mailer EmailSender, push PushSender, appBase string) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		users:   users,
		records: records,
		pushes:  pushes,
		mailer:  mailer,
		push:    push,
		appBase: strings.TrimRight(appBase, "/"),
	}
}

func (d *Dispatcher) Send(ctx context.Context, msg Message) (ChannelResult, error) {
	result := ChannelResult{}

	user, err := d.users.GetUserByID(msg.UserID)
	if err != nil {
		return result, errors.Wrap(err, "dispatch: load user")
	}
	if user == nil {
		return result, errors.Errorf("dispatch: user %s not found", msg.UserID)
	}

	settings, err := d.users.GetSettings(msg.UserID)
	if err != nil {
		d.logger.Error("load notification settings, using defaults", "user_id", msg.UserID, "error", err)
		settings = data.DefaultNotificationSettings(msg.UserID)
	}

	var link *string
	if msg.Link != "" {
		link = &msg.Link
	}

	inserted, err := d.records.CreateNotification(data.Notification{
		ID:      uuid.New(),
		UserID:  msg.UserID,
		Title:   msg.Title,
		Message: msg.Body,
		Link:    link,
		Type:    msg.Type,
		IsRead:  false,
	})
	if err != nil {
		return result, errors.Wrap(err, "dispatch: create notification record")
	}
	result.InApp = true

	if !inserted {
		// Ledger row already existed: this user was notified about this
		// link before, do not re-fire the outbound channels.
		d.logger.Debug("notification already in ledger", "user_id", msg.UserID, "link", msg.Link)
		return result, nil
	}

	if settings.NotifyEmail && user.Email != "" {
		if err := d.sendEmail(user.Email, msg); err != nil {
			d.logger.Error("send alert email", "user_id", msg.UserID, "error", err)
		} else {
			result.Email = true
		}
	}

	if settings.NotifyPush {
		result.Push = d.sendPush(ctx, msg)
	}

	return result, nil
}

func (d *Dispatcher) sendEmail(to string, msg Message) error {
	mail, err := d.mailer.AlertEmail(to, msg)
	if err != nil {
		return err
	}
	return d.mailer.Send(mail)
}

func (d *Dispatcher) sendPush(ctx context.Context, msg Message) bool {
	if !d.push.Enabled() {
		return false
	}

	tokens, err := d.pushes.GetTokensByUserID(msg.UserID)
	if err != nil {
		d.logger.Error("load push tokens", "user_id", msg.UserID, "error", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}

	targetURL := ""
	if d.appBase != "" && msg.Link != "" {
		targetURL = d.appBase + msg.Link
	}

	result := d.push.Send(ctx, tokens, msg, targetURL)
	if len(result.GoneTokens) > 0 {
		if err := d.pushes.DeleteTokens(result.GoneTokens); err != nil {
			d.logger.Error("prune gone push tokens", "user_id", msg.UserID, "error", err)
		}
	}

	return result.SuccessCount > 0
}
