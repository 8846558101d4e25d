package handlers

import (
	"errors"
	"testing"

	"greenova/internal/models"
)

func TestCheckItemPriceAcceptsMatching(t *testing.T) {
	if err := checkItemPrice(1500, 1500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckItemPriceAcceptsUnasserted(t *testing.T) {
	if err := checkItemPrice(0, 1500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckItemPriceRejectsMismatch(t *testing.T) {
	err := checkItemPrice(1200, 1500)
	if !errors.Is(err, errPriceMismatch) {
		t.Fatalf("expected price mismatch error, got %v", err)
	}
}

func TestOrderPaymentMethods(t *testing.T) {
	for _, method := range []string{"cod", "card"} {
		if !containsString(models.OrderPaymentMethods, method) {
			t.Errorf("expected %q to be accepted", method)
		}
	}
	for _, method := range []string{"", "COD", "paypal", "Cash On Delivery"} {
		if containsString(models.OrderPaymentMethods, method) {
			t.Errorf("expected %q to be rejected", method)
		}
	}
}

func TestFirstImage(t *testing.T) {
	if got := firstImage(nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if got := firstImage([]string{"a.jpg", "b.jpg"}); got != "a.jpg" {
		t.Errorf("expected a.jpg, got %q", got)
	}
}
