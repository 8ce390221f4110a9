package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/barganito/barganito.api/data"
)

func TestDeactivationNotice(t *testing.T) {
	submitter := uuid.New()
	offer := data.OfferRow{
		Promotion: data.Promotion{
			ID:          uuid.New(),
			SubmittedBy: &submitter,
		},
		ProductName: "Echo Dot",
	}

	notice := deactivationNotice(offer)

	assert.Equal(t, submitter, notice.UserID)
	assert.Equal(t, data.NotificationTypeSystem, notice.Type)
	assert.Equal(t, "Oferta removida: Echo Dot", notice.Title)
	assert.Contains(t, notice.Message, "denúncias")
	assert.Nil(t, notice.Link, "system notices stay out of the alert dedup ledger")
	assert.False(t, notice.IsRead)
}
