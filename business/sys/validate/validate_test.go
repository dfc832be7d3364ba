package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type newTx struct {
	Amount    *float64 `json:"amount" validate:"required,gte=0"`
	Sender    string   `json:"sender" validate:"required"`
	Recipient string   `json:"recipient" validate:"required"`
}

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate request models.")
	{
		amount := 5.0
		if err := validate.Check(newTx{Amount: &amount, Sender: "A", Recipient: "B"}); err != nil {
			t.Fatalf("\t%s\tShould accept a valid model: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a valid model.", success)

		negative := -1.0
		err := validate.Check(newTx{Amount: &negative, Sender: "A"})
		if !validate.IsFieldErrors(err) {
			t.Fatalf("\t%s\tShould return field errors: %v", failed, err)
		}

		fields := validate.GetFieldErrors(err).Fields()
		if _, exists := fields["amount"]; !exists {
			t.Fatalf("\t%s\tShould report the amount by its json name: %v", failed, fields)
		}
		if _, exists := fields["recipient"]; !exists {
			t.Fatalf("\t%s\tShould report the missing recipient: %v", failed, fields)
		}
		t.Logf("\t%s\tShould report every invalid field by its json name.", success)
	}
}
