package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"mobile-wallet-service/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentCashOuts fires 10 simultaneous cash-outs against a wallet
// that can only cover one of them. The serialized transfer transaction must
// let exactly one through; the rest fail with insufficient balance and the
// system total stays unchanged.
func TestConcurrentCashOuts(t *testing.T) {
	app := newTestApp(t)

	userMobile, _, userPin := app.register(t, "user", 1)
	agentMobile, agentEmail, _ := app.register(t, "agent", 2)

	agent, err := app.accountRepo.GetByEmail(context.Background(), agentEmail)
	require.NoError(t, err)
	require.NoError(t, app.accountRepo.Approve(context.Background(), agent.ID))

	// 100 + 1.5 fee = 101.5 per cash-out; 150 covers exactly one.
	app.accountRepo.setBalance(userMobile, decimal.NewFromInt(150))

	totalBefore, err := app.accountRepo.SumBalances(context.Background())
	require.NoError(t, err)

	concurrency := 10
	payload, err := json.Marshal(map[string]any{
		"userMobile":  userMobile,
		"agentMobile": agentMobile,
		"amount":      100,
		"pin":         userPin,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var successCount, fundsCount, otherCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(app.server.URL+"/transactions/cash-out", "application/json", bytes.NewReader(payload))
			if err != nil {
				otherCount.Add(1)
				return
			}
			defer resp.Body.Close()

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				otherCount.Add(1)
				return
			}
			switch {
			case resp.StatusCode == http.StatusOK:
				successCount.Add(1)
			case fmt.Sprintf("%v", body["error_code"]) == "TXN_001":
				fundsCount.Add(1)
			default:
				otherCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successCount.Load(), "exactly one cash-out may succeed")
	assert.Equal(t, int64(concurrency-1), fundsCount.Load())
	assert.Equal(t, int64(0), otherCount.Load())

	// The winner's fee split landed and nothing was double-spent.
	assert.True(t, app.balanceOf(t, userMobile).Equal(decimal.RequireFromString("48.5")))
	assert.True(t, app.balanceOf(t, agentMobile).Equal(domain.AgentStartingBalance.Add(decimal.NewFromInt(101))))
	assert.Equal(t, 1, app.ledgerRepo.count())

	totalAfter, err := app.accountRepo.SumBalances(context.Background())
	require.NoError(t, err)
	assert.True(t, totalAfter.Equal(totalBefore))
}

// TestConcurrentSendMoney drains a sender with parallel transfers and checks
// that the admin collects exactly one fee per committed transfer.
func TestConcurrentSendMoney(t *testing.T) {
	app := newTestApp(t)

	sender, _, _ := app.register(t, "user", 1)
	recipient, _, _ := app.register(t, "user", 2)

	// 5 transfers of 100 cost 105 each; fund exactly 3 of them.
	app.accountRepo.setBalance(sender, decimal.NewFromInt(315))

	concurrency := 5
	payload, err := json.Marshal(map[string]any{
		"senderMobile":    sender,
		"recipientMobile": recipient,
		"amount":          100,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(app.server.URL+"/transactions/send-money", "application/json", bytes.NewReader(payload))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), successCount.Load())
	assert.True(t, app.balanceOf(t, sender).Equal(decimal.Zero))
	assert.True(t, app.balanceOf(t, recipient).Equal(domain.UserStartingBalance.Add(decimal.NewFromInt(300))))
	assert.True(t, app.balanceOf(t, adminMobile).Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 3, app.ledgerRepo.count())
}
