package postgres

import (
	"context"
	"fmt"

	"mobile-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository. The ledger is append-only;
// there is no update or delete path.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts a ledger entry inside the transfer's transaction, so the
// record commits or rolls back together with the balance changes.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, sender_id, recipient_id, amount, fee, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.SenderID, e.RecipientID, e.Amount, e.Fee, e.Kind, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListAll returns every ledger entry oldest first, with the parties' account
// references resolved to mobile numbers.
func (r *LedgerRepo) ListAll(ctx context.Context) ([]domain.LedgerView, error) {
	query := `SELECT l.id, s.mobile, t.mobile, l.amount, l.fee, l.kind, l.created_at
		FROM ledger_entries l
		JOIN accounts s ON s.id = l.sender_id
		JOIN accounts t ON t.id = l.recipient_id
		ORDER BY l.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var views []domain.LedgerView
	for rows.Next() {
		var v domain.LedgerView
		if err := rows.Scan(
			&v.ID, &v.SenderMobile, &v.RecipientMobile,
			&v.Amount, &v.Fee, &v.Kind, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return views, nil
}
