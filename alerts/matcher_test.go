package alerts

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/notifiers"
)

type fakeStore struct {
	alerts    []data.AlertConfig
	promos    []data.PromotionWithProduct
	pairs     []data.NotifiedPair
	alertsErr error
	promosErr error
	pairsErr  error

	lastMatched map[uuid.UUID]time.Time
}

func (s *fakeStore) GetAllAlerts() ([]data.AlertConfig, error) {
	return s.alerts, s.alertsErr
}

func (s *fakeStore) SetLastMatched(id uuid.UUID, matchedAt time.Time) error {
	if s.lastMatched == nil {
		s.lastMatched = make(map[uuid.UUID]time.Time)
	}
	s.lastMatched[id] = matchedAt
	return nil
}

func (s *fakeStore) GetEligiblePromotions(now time.Time) ([]data.PromotionWithProduct, error) {
	return s.promos, s.promosErr
}

func (s *fakeStore) GetNotifiedPairs(userIDs []uuid.UUID, links []string) ([]data.NotifiedPair, error) {
	return s.pairs, s.pairsErr
}

type fakeDispatcher struct {
	sent      []notifiers.Message
	failLinks map[string]bool
}

func (d *fakeDispatcher) Send(ctx context.Context, msg notifiers.Message) (notifiers.ChannelResult, error) {
	if d.failLinks[msg.Link] {
		return notifiers.ChannelResult{}, errors.New("provider timeout")
	}
	d.sent = append(d.sent, msg)
	return notifiers.ChannelResult{InApp: true}, nil
}

// ledgerFromDispatches simulates the next run's persisted ledger state:
// everything successfully dispatched is now a ledger row.
func ledgerFromDispatches(sent []notifiers.Message) []data.NotifiedPair {
	pairs := make([]data.NotifiedPair, 0, len(sent))
	for _, msg := range sent {
		pairs = append(pairs, data.NotifiedPair{UserID: msg.UserID, Link: msg.Link})
	}
	return pairs
}

func ptr[T any](v T) *T { return &v }

func activePromo(categoryID uuid.UUID, name string, price float64) data.PromotionWithProduct {
	return data.PromotionWithProduct{
		ID:                uuid.New(),
		ProductID:         uuid.New(),
		IsActive:          true,
		StartsAt:          time.Now().Add(-time.Hour),
		ExpiresAt:         time.Now().Add(time.Hour),
		ProductName:       name,
		ProductCategoryID: categoryID,
		ProductPrice:      price,
	}
}

func newTestMatcher(store *fakeStore, dispatcher *fakeDispatcher) *Matcher {
	return NewMatcher(slog.Default(), store, store, store, dispatcher)
}

func TestRunOnce_CategoryPredicate(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()
	userID := uuid.New()
	p1 := activePromo(c1, "Produto A", 50)
	p2 := activePromo(c2, "Produto B", 50)

	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: uuid.New(), UserID: userID, CategoryID: ptr(c1)}},
		promos: []data.PromotionWithProduct{p1, p2},
	}
	dispatcher := &fakeDispatcher{}

	result, err := newTestMatcher(store, dispatcher).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, RunResult{Checked: 1, Triggered: 1, Errors: 0}, result)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, OfferLink(p1.ID), dispatcher.sent[0].Link)
	assert.Equal(t, userID, dispatcher.sent[0].UserID)
}

func TestRunOnce_NoPredicatesMatchesEverything(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: uuid.New(), UserID: userID}},
		promos: []data.PromotionWithProduct{
			activePromo(uuid.New(), "A", 10),
			activePromo(uuid.New(), "B", 20),
			activePromo(uuid.New(), "C", 30),
		},
	}
	dispatcher := &fakeDispatcher{}

	result, err := newTestMatcher(store, dispatcher).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Triggered)
	assert.Len(t, dispatcher.sent, 3)
}

func TestRunOnce_IneligiblePromotionsNeverConsidered(t *testing.T) {
	userID := uuid.New()

	inactive := activePromo(uuid.New(), "Inactive", 10)
	inactive.IsActive = false

	expired := activePromo(uuid.New(), "Expired", 10)
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	upcoming := activePromo(uuid.New(), "Upcoming", 10)
	upcoming.StartsAt = time.Now().Add(time.Minute)

	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: uuid.New(), UserID: userID}},
		promos: []data.PromotionWithProduct{inactive, expired, upcoming},
	}
	dispatcher := &fakeDispatcher{}

	result, err := newTestMatcher(store, dispatcher).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, RunResult{Checked: 1, Triggered: 0, Errors: 0}, result)
	assert.Empty(t, dispatcher.sent)
	assert.Empty(t, store.lastMatched)
}

func TestRunOnce_SamePromotionTwoAlertsSameUser(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	promo := activePromo(categoryID, "iPhone 15 Pro", 500)

	store := &fakeStore{
		alerts: []data.AlertConfig{
			{ID: uuid.New(), UserID: userID, CategoryID: ptr(categoryID)},
			{ID: uuid.New(), UserID: userID, ProductNamePattern: ptr("iphone")},
		},
		promos: []data.PromotionWithProduct{promo},
	}
	dispatcher := &fakeDispatcher{}

	result, err := newTestMatcher(store, dispatcher).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Triggered, "same user and link must dispatch once")
	assert.Len(t, dispatcher.sent, 1)
	// Both alerts matched, both get the bookkeeping timestamp.
	assert.Len(t, store.lastMatched, 2)
}

func TestRunOnce_SecondRunTriggersNothing(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: uuid.New(), UserID: userID}},
		promos: []data.PromotionWithProduct{
			activePromo(uuid.New(), "A", 10),
			activePromo(uuid.New(), "B", 20),
		},
	}
	dispatcher := &fakeDispatcher{}
	matcher := newTestMatcher(store, dispatcher)

	first, err := matcher.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.Triggered)

	store.pairs = ledgerFromDispatches(dispatcher.sent)
	dispatcher.sent = nil

	second, err := matcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Triggered)
	assert.Empty(t, dispatcher.sent)
}

func TestRunOnce_DispatchFailureIsLocal(t *testing.T) {
	userID := uuid.New()
	p1 := activePromo(uuid.New(), "A", 10)
	p2 := activePromo(uuid.New(), "B", 20)
	p3 := activePromo(uuid.New(), "C", 30)

	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: uuid.New(), UserID: userID}},
		promos: []data.PromotionWithProduct{p1, p2, p3},
	}
	dispatcher := &fakeDispatcher{failLinks: map[string]bool{OfferLink(p2.ID): true}}
	matcher := newTestMatcher(store, dispatcher)

	result, err := matcher.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, RunResult{Checked: 1, Triggered: 2, Errors: 1}, result)
	assert.Len(t, dispatcher.sent, 2)

	// The failed match was not marked sent, so the next run retries it.
	store.pairs = ledgerFromDispatches(dispatcher.sent)
	dispatcher.sent = nil
	dispatcher.failLinks = nil

	retry, err := matcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Triggered)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, OfferLink(p2.ID), dispatcher.sent[0].Link)
}

func TestRunOnce_PreloadedLedgerSkipsDispatchButKeepsBookkeeping(t *testing.T) {
	userID := uuid.New()
	alertID := uuid.New()
	promo := activePromo(uuid.New(), "A", 10)

	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: alertID, UserID: userID}},
		promos: []data.PromotionWithProduct{promo},
		pairs:  []data.NotifiedPair{{UserID: userID, Link: OfferLink(promo.ID)}},
	}
	dispatcher := &fakeDispatcher{}

	result, err := newTestMatcher(store, dispatcher).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Triggered)
	assert.Empty(t, dispatcher.sent)
	// The alert still matched, so last_matched_at is refreshed.
	assert.Contains(t, store.lastMatched, alertID)
}

func TestRunOnce_LoadFailuresAreFatal(t *testing.T) {
	base := func() *fakeStore {
		return &fakeStore{
			alerts: []data.AlertConfig{{ID: uuid.New(), UserID: uuid.New()}},
			promos: []data.PromotionWithProduct{activePromo(uuid.New(), "A", 10)},
		}
	}

	store := base()
	store.alertsErr = errors.New("db down")
	_, err := newTestMatcher(store, &fakeDispatcher{}).RunOnce(context.Background())
	assert.ErrorContains(t, err, "load alerts")

	store = base()
	store.promosErr = errors.New("db down")
	_, err = newTestMatcher(store, &fakeDispatcher{}).RunOnce(context.Background())
	assert.ErrorContains(t, err, "load promotions")

	store = base()
	store.pairsErr = errors.New("db down")
	dispatcher := &fakeDispatcher{}
	_, err = newTestMatcher(store, dispatcher).RunOnce(context.Background())
	assert.ErrorContains(t, err, "load dedup ledger")
	assert.Empty(t, dispatcher.sent, "no partial processing after a load failure")
}

func TestRunOnce_MessageContent(t *testing.T) {
	userID := uuid.New()
	promo := activePromo(uuid.New(), "PlayStation 5", 3499.9)
	promo.DiscountPercentage = ptr(15.0)

	store := &fakeStore{
		alerts: []data.AlertConfig{{ID: uuid.New(), UserID: userID}},
		promos: []data.PromotionWithProduct{promo},
	}
	dispatcher := &fakeDispatcher{}

	_, err := newTestMatcher(store, dispatcher).RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, dispatcher.sent, 1)
	msg := dispatcher.sent[0]
	assert.Equal(t, "Alerta de Preço: PlayStation 5", msg.Title)
	assert.Contains(t, msg.Body, "R$ 3499.90")
	assert.Contains(t, msg.Body, "15% OFF")
	assert.Equal(t, data.NotificationTypeAlert, msg.Type)
	assert.Equal(t, "/offer/"+promo.ID.String(), msg.Link)
}

func TestDedupGate(t *testing.T) {
	sent := make(map[string]struct{})
	userID := uuid.New()
	otherUser := uuid.New()

	assert.False(t, alreadyNotified(sent, userID, "/offer/x"))

	markNotified(sent, userID, "/offer/x")
	assert.True(t, alreadyNotified(sent, userID, "/offer/x"))
	assert.False(t, alreadyNotified(sent, userID, "/offer/y"))
	assert.False(t, alreadyNotified(sent, otherUser, "/offer/x"))
}
