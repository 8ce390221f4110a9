package repos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type ReportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db}
}

// CreateReport records a user's abuse report for a promotion. Duplicate
// reports from the same user are silently ignored.
func (r *ReportRepo) CreateReport(report data.Report) error {
	query := `
		INSERT INTO reports (user_id, promotion_id)
		VALUES (:user_id, :promotion_id)
		ON CONFLICT (user_id, promotion_id) DO NOTHING`

	_, err := r.db.NamedExec(query, report)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *ReportRepo) CountByPromotion(promotionID uuid.UUID) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM reports WHERE promotion_id = $1"
	if err := r.db.Get(&count, query, promotionID); err != nil {
		return 0, fmt.Errorf("count reports by promotion: %w", err)
	}

	return count, nil
}
