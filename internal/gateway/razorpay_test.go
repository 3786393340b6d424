package gateway

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidPaymentID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"pay_Nxq7aBcDeFgHiJ", true},
		{"pay_1", true},
		{"pay_", false},
		{"", false},
		{"rfnd_abc", false},
		{"PAY_abc", false},
	}
	for _, tc := range cases {
		if got := ValidPaymentID(tc.id); got != tc.want {
			t.Errorf("ValidPaymentID(%q) = %v, attendu %v", tc.id, got, tc.want)
		}
	}
}

func TestRefundErrorClassification(t *testing.T) {
	badReq := &RefundError{Code: CodeBadRequest, Description: "fully refunded"}
	if !badReq.BadRequest() {
		t.Error("BAD_REQUEST_ERROR doit être classé non réessayable")
	}

	srv := &RefundError{Code: "SERVER_ERROR", Description: "internal"}
	if srv.BadRequest() {
		t.Error("SERVER_ERROR ne doit pas être classé bad request")
	}
}

func TestClassifyRefundErrorStringFallback(t *testing.T) {
	err := classifyRefundError(fmt.Errorf("api response: %s: payment not captured", CodeBadRequest))
	if !err.BadRequest() {
		t.Errorf("classification: %+v", err)
	}

	other := classifyRefundError(errors.New("connection reset"))
	if other.BadRequest() {
		t.Errorf("classification: %+v", other)
	}
}

func TestLookupErrorUnwrap(t *testing.T) {
	cause := errors.New("introuvable")
	err := &LookupError{PaymentID: "pay_x", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap doit exposer la cause")
	}
}
