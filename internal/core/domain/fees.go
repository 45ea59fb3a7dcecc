package domain

import "github.com/shopspring/decimal"

// Fee policy. All rates are fractions of the principal amount; every fee is
// an internal transfer into the admin sink, never destroyed.
var (
	sendFeeRate    = decimal.NewFromFloat(0.01)  // 1%
	sendFeeFloor   = decimal.NewFromInt(5)       // minimum 5 Taka
	cashOutFeeRate = decimal.NewFromFloat(0.015) // 1.5% total
	agentShareRate = decimal.NewFromFloat(0.01)  // 1% commission to agent
	moneyScale     = int32(2)                    // Taka with two fractional digits
)

// SendMoneyFee returns the fee for a peer-to-peer transfer: 1% of the
// amount, but never below 5 Taka. The full fee is credited to the admin sink.
func SendMoneyFee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(sendFeeRate).Round(moneyScale)
	if fee.LessThan(sendFeeFloor) {
		return sendFeeFloor
	}
	return fee
}

// CashOutSplit returns the total fee charged to the user for a cash-out and
// its division between the agent commission (1%) and the admin share (0.5%).
// The admin share is derived as fee minus agent share so that
// fee == agentShare + adminShare holds exactly after rounding.
func CashOutSplit(amount decimal.Decimal) (fee, agentShare, adminShare decimal.Decimal) {
	fee = amount.Mul(cashOutFeeRate).Round(moneyScale)
	agentShare = amount.Mul(agentShareRate).Round(moneyScale)
	adminShare = fee.Sub(agentShare)
	return fee, agentShare, adminShare
}
