//go:build !integration

package model_test

import (
	"errors"
	"math"
	"testing"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
)

func TestDeriveLeadStatus(t *testing.T) {
	cases := []struct {
		name string
		lead model.Lead
		want model.LeadStatus
	}{
		{"fresh lead", model.Lead{}, model.LeadStatusNew},
		{"contact fee paid", model.Lead{ContactFeePaid: true}, model.LeadStatusContactFeePaid},
		{"checkout enabled wins over contact fee", model.Lead{ContactFeePaid: true, CheckoutEnabled: true}, model.LeadStatusCheckoutEnabled},
		{"plan paid wins over everything", model.Lead{ContactFeePaid: true, CheckoutEnabled: true, PlanPaid: true}, model.LeadStatusPlanPaid},
		// Inconsistent flags still resolve by priority.
		{"plan paid alone", model.Lead{PlanPaid: true}, model.LeadStatusPlanPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := model.DeriveLeadStatus(&tc.lead); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNewLead(t *testing.T) {
	t.Run("normalizes name, email and plan", func(t *testing.T) {
		l, err := model.NewLead("id-1", "tok", "  Ali  ", " ALI@EX.com ", "Growth", "an idea", nil, 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if l.FullName != "Ali" || l.Email != "ali@ex.com" {
			t.Errorf("unexpected normalization: %q / %q", l.FullName, l.Email)
		}
		if l.SelectedPlan != model.PlanPro {
			t.Errorf("expected Pro, got %q", l.SelectedPlan)
		}
		if l.Status != model.LeadStatusNew {
			t.Errorf("expected NEW, got %q", l.Status)
		}
	})

	t.Run("rejects blank fields and unknown plans", func(t *testing.T) {
		if _, err := model.NewLead("id", "tok", " ", "a@b.com", "basic", "", nil, 5); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("blank name: expected ErrInvalidArgument, got %v", err)
		}
		if _, err := model.NewLead("id", "tok", "Ali", "a@b.com", "mega", "", nil, 5); !errors.Is(err, domain.ErrInvalidPlan) {
			t.Errorf("unknown plan: expected ErrInvalidPlan, got %v", err)
		}
	})
}

func TestLead_EnableCheckout(t *testing.T) {
	t.Run("requires the contact fee", func(t *testing.T) {
		l := model.Lead{}
		if err := l.EnableCheckout(model.PlanPro, 100, 0, "admin"); !errors.Is(err, domain.ErrContactFeeRequired) {
			t.Fatalf("expected ErrContactFeeRequired, got %v", err)
		}
	})

	t.Run("clamps the discount", func(t *testing.T) {
		cases := []struct {
			name      string
			base      float64
			discount  float64
			wantFinal float64
		}{
			{"plain", 100, 20, 80},
			{"negative discount", 100, -5, 100},
			{"NaN discount", 100, math.NaN(), 100},
			{"discount above base", 100, 500, 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l := model.Lead{ContactFeePaid: true}
				if err := l.EnableCheckout(model.PlanPro, tc.base, tc.discount, "admin"); err != nil {
					t.Fatalf("enable: %v", err)
				}
				if l.FinalPrice != tc.wantFinal {
					t.Errorf("expected final %v, got %v", tc.wantFinal, l.FinalPrice)
				}
				if l.Status != model.LeadStatusCheckoutEnabled {
					t.Errorf("expected CHECKOUT_ENABLED, got %q", l.Status)
				}
			})
		}
	})
}

func TestLead_PlanReady(t *testing.T) {
	ready := model.Lead{ContactFeePaid: true, CheckoutEnabled: true, FinalPrice: 80}
	if !ready.PlanReady() {
		t.Error("expected ready")
	}
	free := model.Lead{ContactFeePaid: true, CheckoutEnabled: true, FinalPrice: 0}
	if free.PlanReady() {
		t.Error("a zero final price must not be payable")
	}
	bad := model.Lead{ContactFeePaid: true, CheckoutEnabled: true, FinalPrice: math.NaN()}
	if bad.PlanReady() {
		t.Error("a NaN final price must not be payable")
	}
}

func TestLead_OwnedBy(t *testing.T) {
	owner := "user-1"
	owned := model.Lead{UserID: &owner}
	if !owned.OwnedBy("user-1") || owned.OwnedBy("user-2") {
		t.Error("owned lead must only admit its owner")
	}
	// Guests stay permissive both ways.
	guest := model.Lead{}
	if !guest.OwnedBy("") || !guest.OwnedBy("user-2") {
		t.Error("guest lead must be open")
	}
	if !owned.OwnedBy("") {
		t.Error("anonymous callers are not blocked by ownership alone")
	}
}

func TestResolvePlan(t *testing.T) {
	cases := map[string]model.Plan{
		"starter": model.PlanBasic,
		"basic":   model.PlanBasic,
		"Growth":  model.PlanPro,
		"PRO":     model.PlanPro,
		" full ":  model.PlanPlus,
		"plus":    model.PlanPlus,
	}
	for label, want := range cases {
		got, err := model.ResolvePlan(label)
		if err != nil {
			t.Errorf("%q: %v", label, err)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %s, got %s", label, want, got)
		}
	}
	if _, err := model.ResolvePlan("mega"); !errors.Is(err, domain.ErrInvalidPlan) {
		t.Errorf("expected ErrInvalidPlan, got %v", err)
	}
}
