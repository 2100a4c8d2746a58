package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kharchapal/internal/models"
)

const dateLayout = "2006-01-02"

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero: %s", s)
	}
	return d, nil
}

// parseDate reads a YYYY-MM-DD date; empty means today
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// parseLine reads a payment line written as method:amount[:extra]. For
// borrowed lines extra names the lender, either a family member's name
// or id or anyone else's name; for other methods it is an account id.
func parseLine(input, id, payerID string, users []models.User) (models.PaymentLine, error) {
	parts := strings.SplitN(input, ":", 3)
	if len(parts) < 2 {
		return models.PaymentLine{}, fmt.Errorf("invalid payment line %q, expected method:amount[:account or lender]", input)
	}

	method := models.PaymentMethod(strings.ToLower(strings.TrimSpace(parts[0])))
	switch method {
	case models.PaymentCash, models.PaymentUPI, models.PaymentCard, models.PaymentBank, models.PaymentWallet, models.PaymentBorrowed:
	default:
		return models.PaymentLine{}, fmt.Errorf("unknown payment method %q", parts[0])
	}

	amount, err := parseAmount(parts[1])
	if err != nil {
		return models.PaymentLine{}, err
	}

	line := models.PaymentLine{ID: id, Method: method, Amount: amount, PayerUserID: payerID}
	extra := ""
	if len(parts) == 3 {
		extra = strings.TrimSpace(parts[2])
	}

	if method != models.PaymentBorrowed {
		line.AccountID = extra
		return line, nil
	}
	if extra == "" {
		return models.PaymentLine{}, fmt.Errorf("borrowed line %q needs a lender", input)
	}
	for _, u := range users {
		if u.ID == extra || strings.EqualFold(u.Name, extra) {
			line.BorrowedFrom = models.BorrowedFromMember(u.ID)
			return line, nil
		}
	}
	line.BorrowedFrom = models.BorrowedFromOutsider(extra)
	return line, nil
}
