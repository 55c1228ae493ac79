package model_test

import (
	"testing"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// TestCashFlow_Bucket tests statement classification of every flow type.
//
// WHY: The cash flow statement's conservation property (bucket totals sum
// to net change) depends on every flow landing in exactly one bucket.
func TestCashFlow_Bucket(t *testing.T) {
	tests := []struct {
		flowType string
		bucket   string
	}{
		{model.FlowStockBuy, model.BucketInvesting},
		{model.FlowStockSell, model.BucketInvesting},
		{model.FlowOptionPremiumIn, model.BucketOperating},
		{model.FlowOptionPremiumOut, model.BucketOperating},
		{model.FlowOptionClose, model.BucketOperating},
		{model.FlowDividend, model.BucketOperating},
		{model.FlowInterest, model.BucketOperating},
		{model.FlowDeposit, model.BucketFinancing},
		{model.FlowWithdrawal, model.BucketFinancing},
		{model.FlowCommission, model.BucketFees},
	}

	for _, tt := range tests {
		t.Run(tt.flowType, func(t *testing.T) {
			c := model.CashFlow{FlowType: tt.flowType}
			if got := c.Bucket(); got != tt.bucket {
				t.Errorf("Bucket() = %q, want %q", got, tt.bucket)
			}
		})
	}
}

// TestDividend_NetAmount tests withholding tax arithmetic.
func TestDividend_NetAmount(t *testing.T) {
	d := model.Dividend{TotalDividend: 100, TaxWithheld: 15}
	if got := d.NetAmount(); got != 85 {
		t.Errorf("NetAmount() = %v, want 85", got)
	}
}
