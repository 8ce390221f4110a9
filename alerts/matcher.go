package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/matchers"
	"github.com/barganito/barganito.api/notifiers"
)

type AlertStore interface {
	GetAllAlerts() ([]data.AlertConfig, error)
	SetLastMatched(id uuid.UUID, matchedAt time.Time) error
}

type PromotionStore interface {
	GetEligiblePromotions(now time.Time) ([]data.PromotionWithProduct, error)
}

type LedgerStore interface {
	GetNotifiedPairs(userIDs []uuid.UUID, links []string) ([]data.NotifiedPair, error)
}

type Dispatcher interface {
	Send(ctx context.Context, msg notifiers.Message) (notifiers.ChannelResult, error)
}

// RunResult aggregates one complete matcher pass.
type RunResult struct {
	Checked   int `json:"checked"`
	Triggered int `json:"triggered"`
	Errors    int `json:"errors"`
}

// Matcher runs the load/match/dispatch pipeline over the current alert and
// promotion state. Each run is a complete pass and safe to repeat: delivered
// matches land in the dedup ledger and are skipped on the next pass, failed
// dispatches are not, so the next scheduled run is the retry mechanism.
type Matcher struct {
	logger     *slog.Logger
	alerts     AlertStore
	promotions PromotionStore
	ledger     LedgerStore
	dispatcher Dispatcher
}

func NewMatcher(logger *slog.Logger, alerts AlertStore, promotions PromotionStore, ledger LedgerStore, dispatcher Dispatcher) *Matcher {
	return &Matcher{
		logger:     logger,
		alerts:     alerts,
		promotions: promotions,
		ledger:     ledger,
		dispatcher: dispatcher,
	}
}

// OfferLink is the in-app target for a promotion notification. It doubles as
// the second half of the dedup ledger key.
func OfferLink(promotionID uuid.UUID) string {
	return "/offer/" + promotionID.String()
}

// RunOnce executes one matcher pass. A failure in any of the three bulk load
// queries is fatal and aborts the run with no partial processing; a failure
// dispatching an individual notification is counted, logged and skipped.
func (m *Matcher) RunOnce(ctx context.Context) (RunResult, error) {
	now := time.Now()
	result := RunResult{}

	alertConfigs, err := m.alerts.GetAllAlerts()
	if err != nil {
		return result, errors.Wrap(err, "matcher run: load alerts")
	}
	result.Checked = len(alertConfigs)

	loaded, err := m.promotions.GetEligiblePromotions(now)
	if err != nil {
		return result, errors.Wrap(err, "matcher run: load promotions")
	}

	// The query already restricts to active, in-window promotions; re-check
	// here so the candidate-set invariant does not depend on the store.
	candidates := make([]data.PromotionWithProduct, 0, len(loaded))
	for _, promo := range loaded {
		if matchers.Eligible(promo, now) {
			candidates = append(candidates, promo)
		}
	}

	sent, err := m.loadSentSet(alertConfigs, candidates)
	if err != nil {
		return result, errors.Wrap(err, "matcher run: load dedup ledger")
	}

	for _, alert := range alertConfigs {
		matched := 0
		for _, promo := range candidates {
			if !matchers.Matches(alert, promo) {
				continue
			}
			matched++

			link := OfferLink(promo.ID)
			if alreadyNotified(sent, alert.UserID, link) {
				continue
			}

			if _, err := m.dispatcher.Send(ctx, buildMessage(alert.UserID, promo, link)); err != nil {
				result.Errors++
				m.logger.Error("dispatch alert notification",
					"alert_id", alert.ID, "promotion_id", promo.ID, "error", err)
				continue
			}

			markNotified(sent, alert.UserID, link)
			result.Triggered++
		}

		if matched > 0 {
			if err := m.alerts.SetLastMatched(alert.ID, now); err != nil {
				m.logger.Error("update last matched", "alert_id", alert.ID, "error", err)
			}
		}
	}

	m.logger.Info("matcher run complete",
		"checked", result.Checked, "triggered", result.Triggered, "errors", result.Errors,
		"candidates", len(candidates), "elapsed_ms", time.Since(now).Milliseconds())

	return result, nil
}

// loadSentSet bulk-loads the existing ledger rows restricted to this run's
// users and candidate links, avoiding a per-match existence query.
func (m *Matcher) loadSentSet(alertConfigs []data.AlertConfig, candidates []data.PromotionWithProduct) (map[string]struct{}, error) {
	userSet := make(map[uuid.UUID]struct{}, len(alertConfigs))
	userIDs := make([]uuid.UUID, 0, len(alertConfigs))
	for _, alert := range alertConfigs {
		if _, ok := userSet[alert.UserID]; ok {
			continue
		}
		userSet[alert.UserID] = struct{}{}
		userIDs = append(userIDs, alert.UserID)
	}

	links := make([]string, 0, len(candidates))
	for _, promo := range candidates {
		links = append(links, OfferLink(promo.ID))
	}

	pairs, err := m.ledger.GetNotifiedPairs(userIDs, links)
	if err != nil {
		return nil, err
	}

	sent := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		markNotified(sent, pair.UserID, pair.Link)
	}

	return sent, nil
}

func buildMessage(userID uuid.UUID, promo data.PromotionWithProduct, link string) notifiers.Message {
	body := fmt.Sprintf("O produto que você está monitorando atingiu R$ %.2f", promo.ProductPrice)
	if promo.DiscountPercentage != nil {
		body += fmt.Sprintf(" (%.0f%% OFF)", *promo.DiscountPercentage)
	}
	body += "!"

	return notifiers.Message{
		UserID: userID,
		Title:  "Alerta de Preço: " + promo.ProductName,
		Body:   body,
		Link:   link,
		Type:   data.NotificationTypeAlert,
	}
}
