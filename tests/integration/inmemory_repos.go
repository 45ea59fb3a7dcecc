package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Mobile == account.Mobile || existing.Email == account.Email || existing.NID == account.NID {
			return apperror.ErrIdentityInUse()
		}
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *inMemoryAccountRepo) GetByMobile(ctx context.Context, mobile string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Mobile == mobile {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetAdmin(ctx context.Context) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Role == domain.RoleAdmin {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

// GetByMobileForUpdate relies on the serializing transactor for exclusion;
// only one transfer transaction runs at a time, so a plain read is safe.
func (r *inMemoryAccountRepo) GetByMobileForUpdate(ctx context.Context, tx pgx.Tx, mobile string) (*domain.Account, error) {
	return r.GetByMobile(ctx, mobile)
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s not found", accountID)
	}
	if balance.IsNegative() {
		return fmt.Errorf("balance check violation for account %s", accountID)
	}
	a.Balance = balance
	return nil
}

func (r *inMemoryAccountRepo) ListApproved(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Account
	for _, a := range r.accounts {
		if a.Role == role && a.Approved {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryAccountRepo) ListPendingAgents(ctx context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Account
	for _, a := range r.accounts {
		if a.Role == domain.RoleAgent && !a.Approved {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryAccountRepo) Approve(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s not found", accountID)
	}
	a.Approved = true
	return nil
}

func (r *inMemoryAccountRepo) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, a := range r.accounts {
		total = total.Add(a.Balance)
	}
	return total, nil
}

// seed inserts an account directly, bypassing registration. Test setup only.
func (r *inMemoryAccountRepo) seed(a *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = cloneAccount(a)
}

// setBalance overwrites an account's balance by mobile. Test setup only.
func (r *inMemoryAccountRepo) setBalance(mobile string, balance decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Mobile == mobile {
			a.Balance = balance
			return
		}
	}
}

func (r *inMemoryAccountRepo) mobileByID(id uuid.UUID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.accounts[id]; ok {
		return a.Mobile
	}
	return ""
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu       sync.RWMutex
	entries  []domain.LedgerEntry
	accounts *inMemoryAccountRepo
}

func newInMemoryLedgerRepo(accounts *inMemoryAccountRepo) *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{accounts: accounts}
}

func (r *inMemoryLedgerRepo) Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryLedgerRepo) ListAll(ctx context.Context) ([]domain.LedgerView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]domain.LedgerView, 0, len(r.entries))
	for _, e := range r.entries {
		views = append(views, domain.LedgerView{
			ID:              e.ID,
			SenderMobile:    r.accounts.mobileByID(e.SenderID),
			RecipientMobile: r.accounts.mobileByID(e.RecipientID),
			Amount:          e.Amount,
			Fee:             e.Fee,
			Kind:            e.Kind,
			CreatedAt:       e.CreatedAt,
		})
	}
	return views, nil
}

func (r *inMemoryLedgerRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// --- Serializing Transactor ---

// serializingTransactor gives transfers the same isolation the row locks
// provide in PostgreSQL: Begin acquires a global mutex that is held until
// Commit or Rollback, so transfer transactions run one at a time.
type serializingTransactor struct {
	mu sync.Mutex
}

func newSerializingTransactor() *serializingTransactor {
	return &serializingTransactor{}
}

func (t *serializingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{unlock: &t.mu}, nil
}

// serialTx releases the transactor mutex exactly once, on whichever of
// Commit or Rollback runs first. The service calls Rollback via defer even
// after a successful Commit.
type serialTx struct {
	unlock  *sync.Mutex
	release sync.Once
}

func (t *serialTx) done() {
	t.release.Do(t.unlock.Unlock)
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
