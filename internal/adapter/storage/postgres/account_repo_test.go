package postgres

import (
	"context"
	"testing"
	"time"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(role domain.Role) *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:           uuid.New(),
		Name:         "Rahim Uddin",
		Mobile:       "01712345678",
		Email:        "rahim@example.com",
		NID:          "1990123456789",
		Role:         role,
		PinHash:      "bcrypt-pin-hash",
		PasswordHash: "bcrypt-password-hash",
		Balance:      decimal.NewFromInt(40),
		Approved:     role == domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func accountColumnNames() []string {
	return []string{"id", "name", "mobile", "email", "nid", "role", "pin_hash", "password_hash", "balance", "approved", "created_at", "updated_at"}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumnNames()).AddRow(
		a.ID, a.Name, a.Mobile, a.Email, a.NID, a.Role,
		a.PinHash, a.PasswordHash, a.Balance, a.Approved,
		a.CreatedAt, a.UpdatedAt,
	)
}

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleUser)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.ID, a.Name, a.Mobile, a.Email, a.NID, a.Role,
			a.PinHash, a.PasswordHash, a.Balance, a.Approved,
			a.CreatedAt, a.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Create_UniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleUser)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.ID, a.Name, a.Mobile, a.Email, a.NID, a.Role,
			a.PinHash, a.PasswordHash, a.Balance, a.Approved,
			a.CreatedAt, a.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	err = repo.Create(context.Background(), a)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "ACC_004", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByMobile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleUser)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE mobile").
		WithArgs(a.Mobile).
		WillReturnRows(accountRow(a))

	result, err := repo.GetByMobile(context.Background(), a.Mobile)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.True(t, result.Balance.Equal(a.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByMobile_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE mobile").
		WithArgs("01700000000").
		WillReturnRows(pgxmock.NewRows(accountColumnNames()))

	result, err := repo.GetByMobile(context.Background(), "01700000000")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleAgent)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email").
		WithArgs(a.Email).
		WillReturnRows(accountRow(a))

	result, err := repo.GetByEmail(context.Background(), a.Email)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.Email, result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	admin := newTestAccount(domain.RoleAdmin)
	admin.Approved = true

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE role = 'admin'").
		WillReturnRows(accountRow(admin))

	result, err := repo.GetAdmin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.RoleAdmin, result.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByMobileForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleUser)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE mobile = (.+) FOR UPDATE").
		WithArgs(a.Mobile).
		WillReturnRows(accountRow(a))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByMobileForUpdate(context.Background(), tx, a.Mobile)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleUser)
	newBalance := decimal.NewFromFloat(98.5)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs(newBalance, a.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, a.ID, newBalance)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_UpdateBalance_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs(decimal.NewFromInt(10), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, id, decimal.NewFromInt(10))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ListApproved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a1 := newTestAccount(domain.RoleAgent)
	a1.Approved = true
	a2 := newTestAccount(domain.RoleAgent)
	a2.Approved = true
	a2.Mobile = "01787654321"
	a2.Email = "karim@example.com"

	rows := pgxmock.NewRows(accountColumnNames()).
		AddRow(a1.ID, a1.Name, a1.Mobile, a1.Email, a1.NID, a1.Role,
			a1.PinHash, a1.PasswordHash, a1.Balance, a1.Approved, a1.CreatedAt, a1.UpdatedAt).
		AddRow(a2.ID, a2.Name, a2.Mobile, a2.Email, a2.NID, a2.Role,
			a2.PinHash, a2.PasswordHash, a2.Balance, a2.Approved, a2.CreatedAt, a2.UpdatedAt)

	mock.ExpectQuery("SELECT .+ FROM accounts").
		WithArgs(domain.RoleAgent).
		WillReturnRows(rows)

	result, err := repo.ListApproved(context.Background(), domain.RoleAgent)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, a1.Mobile, result[0].Mobile)
	assert.Equal(t, a2.Mobile, result[1].Mobile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ListPendingAgents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(domain.RoleAgent)

	mock.ExpectQuery("SELECT .+ FROM accounts").
		WillReturnRows(accountRow(a))

	result, err := repo.ListPendingAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.False(t, result[0].Approved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Approve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE accounts SET approved").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Approve(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_SumBalances(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(101040)))

	total, err := repo.SumBalances(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(101040)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
