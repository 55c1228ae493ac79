package model_test

import (
	"testing"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// TestPriceAlert_ShouldTrigger tests trigger evaluation for each alert
// type.
//
// WHY: Trigger evaluation is the heart of the monitoring loop. Above and
// below must be inclusive so an exact touch fires, and cross must use a
// relative tolerance so it behaves identically for cheap and expensive
// symbols.
func TestPriceAlert_ShouldTrigger(t *testing.T) {
	tests := []struct {
		name    string
		alert   model.PriceAlert
		price   float64
		trigger bool
	}{
		{"above fires at the target exactly", model.PriceAlert{AlertType: model.AlertAbove, TargetPrice: 150}, 150, true},
		{"above fires past the target", model.PriceAlert{AlertType: model.AlertAbove, TargetPrice: 150}, 150.01, true},
		{"above holds below the target", model.PriceAlert{AlertType: model.AlertAbove, TargetPrice: 150}, 149.99, false},
		{"below fires at the target exactly", model.PriceAlert{AlertType: model.AlertBelow, TargetPrice: 90}, 90, true},
		{"below holds above the target", model.PriceAlert{AlertType: model.AlertBelow, TargetPrice: 90}, 90.01, false},
		{"cross fires inside relative tolerance", model.PriceAlert{AlertType: model.AlertCross, TargetPrice: 100}, 100.19, true},
		{"cross holds outside relative tolerance", model.PriceAlert{AlertType: model.AlertCross, TargetPrice: 100}, 100.21, false},
		{"cross tolerance scales with price", model.PriceAlert{AlertType: model.AlertCross, TargetPrice: 1000}, 1001.9, true},
		{"cross with zero target never fires", model.PriceAlert{AlertType: model.AlertCross, TargetPrice: 0}, 0, false},
		{"unknown type never fires", model.PriceAlert{AlertType: "sideways", TargetPrice: 100}, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.alert.ShouldTrigger(tt.price); got != tt.trigger {
				t.Errorf("ShouldTrigger(%v) = %v, want %v", tt.price, got, tt.trigger)
			}
		})
	}
}
