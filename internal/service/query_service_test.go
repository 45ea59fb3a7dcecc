package service

import (
	"context"
	"testing"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type queryTestDeps struct {
	svc         *QueryServiceImpl
	accountRepo *mocks.MockAccountRepository
	ledgerRepo  *mocks.MockLedgerRepository
	ctrl        *gomock.Controller
}

func setupQueryService(t *testing.T) *queryTestDeps {
	ctrl := gomock.NewController(t)
	d := &queryTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		ledgerRepo:  mocks.NewMockLedgerRepository(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewQueryService(d.accountRepo, d.ledgerRepo)
	return d
}

func TestQueryService_ListLedger(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	views := []domain.LedgerView{
		{SenderMobile: testUserMobile, RecipientMobile: testSecondMobile, Kind: domain.TransferKindSend},
	}
	d.ledgerRepo.EXPECT().ListAll(ctx).Return(views, nil)

	got, err := d.svc.ListLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, views, got)
}

func TestQueryService_ListApprovedAgents(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agents := []domain.Account{*testAccount(testAgentMobile, domain.RoleAgent, "100000")}
	d.accountRepo.EXPECT().ListApproved(ctx, domain.RoleAgent).Return(agents, nil)

	got, err := d.svc.ListApprovedAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, domain.RoleAgent, got[0].Role)
}

func TestQueryService_ListApprovedUsers(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	users := []domain.Account{*testAccount(testUserMobile, domain.RoleUser, "40")}
	d.accountRepo.EXPECT().ListApproved(ctx, domain.RoleUser).Return(users, nil)

	got, err := d.svc.ListApprovedUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQueryService_GetMobileByEmail(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	account := testAccount(testUserMobile, domain.RoleUser, "40")
	account.Email = "rahim@example.com"

	d.accountRepo.EXPECT().GetByEmail(ctx, account.Email).Return(account, nil)

	mobile, err := d.svc.GetMobileByEmail(ctx, account.Email)
	require.NoError(t, err)
	assert.Equal(t, testUserMobile, mobile)
}

func TestQueryService_GetMobileByEmail_NotFound(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, nil)

	_, err := d.svc.GetMobileByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, "ACC_001", appCode(t, err))
}

func TestQueryService_GetAgentMobileByEmail(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agent := testAccount(testAgentMobile, domain.RoleAgent, "100000")
	agent.Email = "agent@example.com"

	d.accountRepo.EXPECT().GetByEmail(ctx, agent.Email).Return(agent, nil)

	mobile, err := d.svc.GetAgentMobileByEmail(ctx, agent.Email)
	require.NoError(t, err)
	assert.Equal(t, testAgentMobile, mobile)
}

func TestQueryService_GetAgentMobileByEmail_WrongRole(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	user := testAccount(testUserMobile, domain.RoleUser, "40")
	user.Email = "rahim@example.com"

	d.accountRepo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

	_, err := d.svc.GetAgentMobileByEmail(ctx, user.Email)
	require.Error(t, err)
	assert.Equal(t, "ACC_002", appCode(t, err))
}

func TestQueryService_SystemBalance(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().SumBalances(ctx).Return(dec("101040"), nil)

	total, err := d.svc.SystemBalance(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("101040")))
}
