package offers

import "testing"

func intPtr(i int) *int { return &i }

func TestValidateOfferInput(t *testing.T) {
	valid := offerInput{Title: "Winter Special", Description: "Cleanup + wax", DiscountPercent: intPtr(54)}
	if msg := validateOfferInput(valid); msg != "" {
		t.Fatalf("expected valid input, got %q", msg)
	}

	invalid := []offerInput{
		{Description: "d", DiscountPercent: intPtr(20)},
		{Title: "t", DiscountPercent: intPtr(20)},
		{Title: "t", Description: "d"},
		{Title: "t", Description: "d", DiscountPercent: intPtr(0)},
		{Title: "t", Description: "d", DiscountPercent: intPtr(100)},
		{Title: "  ", Description: "d", DiscountPercent: intPtr(20)},
	}
	for i, in := range invalid {
		if msg := validateOfferInput(in); msg == "" {
			t.Fatalf("case %d: expected validation failure", i)
		}
	}

	for _, pct := range []int{1, 50, 99} {
		in := offerInput{Title: "t", Description: "d", DiscountPercent: intPtr(pct)}
		if msg := validateOfferInput(in); msg != "" {
			t.Fatalf("percent %d should be valid, got %q", pct, msg)
		}
	}
}
