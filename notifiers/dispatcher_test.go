package notifiers

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/models"
)

type fakeUserStore struct {
	user        *data.User
	userErr     error
	settings    data.NotificationSettings
	settingsErr error
}

func (s *fakeUserStore) GetUserByID(id uuid.UUID) (*data.User, error) {
	return s.user, s.userErr
}

func (s *fakeUserStore) GetSettings(userID uuid.UUID) (data.NotificationSettings, error) {
	if s.settingsErr != nil {
		return data.NotificationSettings{}, s.settingsErr
	}
	return s.settings, nil
}

type fakeNotificationStore struct {
	created   []data.Notification
	duplicate bool
	err       error
}

func (s *fakeNotificationStore) CreateNotification(n data.Notification) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.duplicate {
		return false, nil
	}
	s.created = append(s.created, n)
	return true, nil
}

type fakePushStore struct {
	tokens  []string
	deleted []string
}

func (s *fakePushStore) GetTokensByUserID(userID uuid.UUID) ([]string, error) {
	return s.tokens, nil
}

func (s *fakePushStore) DeleteTokens(tokens []string) error {
	s.deleted = append(s.deleted, tokens...)
	return nil
}

type fakeMailer struct {
	sent    []models.Email
	sendErr error
}

func (m *fakeMailer) AlertEmail(email string, msg Message) (models.Email, error) {
	return models.Email{To: email, Subject: msg.Title, Body: msg.Body}, nil
}

func (m *fakeMailer) Send(mail models.Email) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, mail)
	return nil
}

type fakePushSender struct {
	enabled bool
	result  PushResult
	sentTo  [][]string
}

func (p *fakePushSender) Enabled() bool { return p.enabled }

func (p *fakePushSender) Send(ctx context.Context, tokens []string, msg Message, targetURL string) PushResult {
	p.sentTo = append(p.sentTo, tokens)
	return p.result
}

func testMessage(userID uuid.UUID) Message {
	return Message{
		UserID: userID,
		Title:  "Alerta de Preço: iPhone 15 Pro",
		Body:   "O produto que você está monitorando atingiu R$ 100.00!",
		Link:   "/offer/" + uuid.NewString(),
		Type:   data.NotificationTypeAlert,
	}
}

func newTestDispatcher(users *fakeUserStore, records *fakeNotificationStore, pushes *fakePushStore, mailer *fakeMailer, push *fakePushSender) *Dispatcher {
	return NewDispatcher(slog.Default(), users, records, pushes, mailer, push, "https://barganito.example")
}

func TestSend_AllChannels(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID, Email: "user@example.com"},
		settings: data.DefaultNotificationSettings(userID),
	}
	records := &fakeNotificationStore{}
	pushes := &fakePushStore{tokens: []string{"tok1", "tok2"}}
	mailer := &fakeMailer{}
	push := &fakePushSender{enabled: true, result: PushResult{SuccessCount: 2}}

	d := newTestDispatcher(users, records, pushes, mailer, push)
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.Equal(t, ChannelResult{InApp: true, Email: true, Push: true}, result)

	require.Len(t, records.created, 1)
	assert.False(t, records.created[0].IsRead)
	assert.Equal(t, userID, records.created[0].UserID)
	require.NotNil(t, records.created[0].Link)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "user@example.com", mailer.sent[0].To)

	require.Len(t, push.sentTo, 1)
	assert.Equal(t, []string{"tok1", "tok2"}, push.sentTo[0])
}

func TestSend_LedgerDuplicateShortCircuits(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID, Email: "user@example.com"},
		settings: data.DefaultNotificationSettings(userID),
	}
	records := &fakeNotificationStore{duplicate: true}
	mailer := &fakeMailer{}
	push := &fakePushSender{enabled: true}

	d := newTestDispatcher(users, records, &fakePushStore{tokens: []string{"tok"}}, mailer, push)
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.Equal(t, ChannelResult{InApp: true}, result)
	assert.Empty(t, mailer.sent, "already-notified users get no repeat email")
	assert.Empty(t, push.sentTo)
}

func TestSend_InAppFailureFailsDispatch(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID},
		settings: data.DefaultNotificationSettings(userID),
	}
	records := &fakeNotificationStore{err: errors.New("insert failed")}

	d := newTestDispatcher(users, records, &fakePushStore{}, &fakeMailer{}, &fakePushSender{})
	_, err := d.Send(context.Background(), testMessage(userID))

	assert.ErrorContains(t, err, "create notification record")
}

func TestSend_UnknownUserFailsDispatch(t *testing.T) {
	d := newTestDispatcher(&fakeUserStore{}, &fakeNotificationStore{}, &fakePushStore{}, &fakeMailer{}, &fakePushSender{})

	_, err := d.Send(context.Background(), testMessage(uuid.New()))

	assert.ErrorContains(t, err, "not found")
}

func TestSend_EmailDisabledByPreference(t *testing.T) {
	userID := uuid.New()
	settings := data.DefaultNotificationSettings(userID)
	settings.NotifyEmail = false
	users := &fakeUserStore{
		user:     &data.User{ID: userID, Email: "user@example.com"},
		settings: settings,
	}
	mailer := &fakeMailer{}

	d := newTestDispatcher(users, &fakeNotificationStore{}, &fakePushStore{}, mailer, &fakePushSender{})
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.True(t, result.InApp)
	assert.False(t, result.Email)
	assert.Empty(t, mailer.sent)
}

func TestSend_NoEmailAddressSkipsEmail(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID},
		settings: data.DefaultNotificationSettings(userID),
	}
	mailer := &fakeMailer{}

	d := newTestDispatcher(users, &fakeNotificationStore{}, &fakePushStore{}, mailer, &fakePushSender{})
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.False(t, result.Email)
	assert.Empty(t, mailer.sent)
}

func TestSend_EmailFailureIsLocal(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID, Email: "user@example.com"},
		settings: data.DefaultNotificationSettings(userID),
	}
	mailer := &fakeMailer{sendErr: errors.New("smtp timeout")}

	d := newTestDispatcher(users, &fakeNotificationStore{}, &fakePushStore{}, mailer, &fakePushSender{})
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err, "email failure must not fail the dispatch")
	assert.True(t, result.InApp)
	assert.False(t, result.Email)
}

func TestSend_PrunesGoneTokens(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID},
		settings: data.DefaultNotificationSettings(userID),
	}
	pushes := &fakePushStore{tokens: []string{"alive", "gone"}}
	push := &fakePushSender{
		enabled: true,
		result:  PushResult{SuccessCount: 1, FailureCount: 1, GoneTokens: []string{"gone"}},
	}

	d := newTestDispatcher(users, &fakeNotificationStore{}, pushes, &fakeMailer{}, push)
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.True(t, result.Push)
	assert.Equal(t, []string{"gone"}, pushes.deleted)
}

func TestSend_PushDisabledService(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:     &data.User{ID: userID},
		settings: data.DefaultNotificationSettings(userID),
	}
	push := &fakePushSender{enabled: false}

	d := newTestDispatcher(users, &fakeNotificationStore{}, &fakePushStore{tokens: []string{"tok"}}, &fakeMailer{}, push)
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.False(t, result.Push)
	assert.Empty(t, push.sentTo)
}

func TestSend_SettingsLoadFailureFallsBackToDefaults(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserStore{
		user:        &data.User{ID: userID, Email: "user@example.com"},
		settingsErr: errors.New("db hiccup"),
	}
	mailer := &fakeMailer{}

	d := newTestDispatcher(users, &fakeNotificationStore{}, &fakePushStore{}, mailer, &fakePushSender{})
	result, err := d.Send(context.Background(), testMessage(userID))

	require.NoError(t, err)
	assert.True(t, result.InApp)
	assert.True(t, result.Email, "defaults enable email when settings cannot be loaded")
}
