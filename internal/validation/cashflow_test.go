package validation_test

import (
	"testing"

	"github.com/jchenq/portfolio-desk/internal/api/request"
	"github.com/jchenq/portfolio-desk/internal/validation"
)

// TestValidateCreateCashFlow tests manual cash flow validation.
//
// WHY: Flow type drives statement bucketing downstream; an unrecognised
// type must be rejected at the boundary, and a recognised one must pass.
func TestValidateCreateCashFlow(t *testing.T) {
	valid := func() request.CreateCashFlowRequest {
		return request.CreateCashFlowRequest{
			Date:        "2026-01-05",
			AccountName: "swing",
			FlowType:    "dividend",
			Amount:      85,
		}
	}

	t.Run("valid request passes", func(t *testing.T) {
		if err := validation.ValidateCreateCashFlow(valid()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects unknown flow type", func(t *testing.T) {
		req := valid()
		req.FlowType = "rebate"

		err := validation.ValidateCreateCashFlow(req)
		if err == nil {
			t.Fatal("Expected validation error")
		}
		vErr, ok := err.(*validation.Error)
		if !ok {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, present := vErr.Fields["flowType"]; !present {
			t.Errorf("Expected a finding for flowType, got %v", vErr.Fields)
		}
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		req := valid()
		req.Amount = 0

		if err := validation.ValidateCreateCashFlow(req); err == nil {
			t.Error("Expected error for zero amount")
		}
	})
}

// TestValidateUpdateCashFlow tests partial update validation.
func TestValidateUpdateCashFlow(t *testing.T) {
	t.Run("empty update passes", func(t *testing.T) {
		if err := validation.ValidateUpdateCashFlow(request.UpdateCashFlowRequest{}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects unknown flow type", func(t *testing.T) {
		flowType := "rebate"
		err := validation.ValidateUpdateCashFlow(request.UpdateCashFlowRequest{FlowType: &flowType})
		if err == nil {
			t.Fatal("Expected validation error")
		}
		vErr, ok := err.(*validation.Error)
		if !ok {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, present := vErr.Fields["flowType"]; !present {
			t.Errorf("Expected a finding for flowType, got %v", vErr.Fields)
		}
	})
}
