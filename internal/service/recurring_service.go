package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
	"kharchapal/internal/utils"
)

// maxCatchUp bounds how many missed occurrences one run records per
// transaction
const maxCatchUp = 400

// RecurringService books auto-deducted recurring transactions as expenses
type RecurringService struct {
	app *AppState
}

// NewRecurringService creates a recurring service over app
func NewRecurringService(app *AppState) *RecurringService {
	return &RecurringService{app: app}
}

// RecurringExpenseID is the id of the expense booked for the occurrence
// of a recurring transaction due on day
func RecurringExpenseID(recurringID string, day time.Time) string {
	return utils.DerivedID("recurring", recurringID, day.Format("2006-01-02"))
}

// ProcessDue records an expense for every occurrence of an auto-deducted
// transaction that is due on or before today, and moves its next due
// date past today. It returns the number of expenses recorded.
func (s *RecurringService) ProcessDue(ctx context.Context, today time.Time) (int, error) {
	recorded := 0
	for _, rt := range s.app.Snapshot().RecurringTransactions {
		if !rt.AutoDeduct {
			continue
		}
		n, err := s.processOne(ctx, rt, today)
		recorded += n
		if err != nil {
			return recorded, fmt.Errorf("failed to process recurring transaction %s: %w", rt.ID, err)
		}
	}
	if recorded > 0 {
		log.Printf("Recorded %d recurring expenses", recorded)
	}
	return recorded, nil
}

func (s *RecurringService) processOne(ctx context.Context, rt models.RecurringTransaction, today time.Time) (int, error) {
	recorded := 0
	for i := 0; rt.IsDue(today) && i < maxCatchUp; i++ {
		due := rt.NextDueDate
		err := s.app.AddExpense(ctx, occurrenceExpense(rt, due))
		switch {
		case err == nil:
			recorded++
		case errors.Is(err, store.ErrDuplicateKey):
			// booked by an earlier run that stopped before advancing
		default:
			return recorded, err
		}

		paid := due
		rt.LastPaidDate = &paid
		rt.NextDueDate = rt.NextAfter(due)
		if err := s.app.UpdateRecurringTransaction(ctx, rt); err != nil {
			return recorded, err
		}
	}
	return recorded, nil
}

func occurrenceExpense(rt models.RecurringTransaction, due time.Time) models.Expense {
	id := RecurringExpenseID(rt.ID, due)
	method := rt.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}
	return models.Expense{
		ID:          id,
		FamilyID:    rt.FamilyID,
		CreatedBy:   rt.CreatedBy,
		TotalAmount: rt.Amount,
		Currency:    rt.Currency,
		Category:    rt.Category,
		Date:        due,
		Notes:       rt.Description,
		PaymentLines: []models.PaymentLine{{
			ID:          "payment-" + id,
			Method:      method,
			Amount:      rt.Amount,
			PayerUserID: rt.CreatedBy,
			AccountID:   rt.AccountID,
		}},
		IsShared: true,
	}
}
