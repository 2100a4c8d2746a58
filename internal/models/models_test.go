package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expenseWithLines(total string, lines ...string) Expense {
	e := Expense{
		ID:          "e1",
		FamilyID:    "f1",
		CreatedBy:   "u1",
		TotalAmount: amt(total),
		Category:    "groceries",
	}
	for i, l := range lines {
		e.PaymentLines = append(e.PaymentLines, PaymentLine{
			ID:          string(rune('a' + i)),
			Method:      PaymentCash,
			Amount:      amt(l),
			PayerUserID: "u1",
		})
	}
	return e
}

func TestExpenseValidation(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		wantErr bool
	}{
		{
			name:    "lines match total",
			expense: expenseWithLines("800", "500", "300"),
			wantErr: false,
		},
		{
			name:    "within tolerance",
			expense: expenseWithLines("100", "33.33", "33.33", "33.33"),
			wantErr: false,
		},
		{
			name:    "outside tolerance",
			expense: expenseWithLines("100", "33.33", "33.33", "33.32"),
			wantErr: true,
		},
		{
			name:    "lines short of total",
			expense: expenseWithLines("800", "500"),
			wantErr: true,
		},
		{
			name:    "no lines",
			expense: expenseWithLines("800"),
			wantErr: true,
		},
		{
			name:    "zero total",
			expense: expenseWithLines("0", "0"),
			wantErr: true,
		},
		{
			name: "missing family",
			expense: func() Expense {
				e := expenseWithLines("10", "10")
				e.FamilyID = ""
				return e
			}(),
			wantErr: true,
		},
		{
			name: "duplicate line ids",
			expense: func() Expense {
				e := expenseWithLines("20", "10", "10")
				e.PaymentLines[1].ID = e.PaymentLines[0].ID
				return e
			}(),
			wantErr: true,
		},
		{
			name: "borrowed from both member and name",
			expense: func() Expense {
				e := expenseWithLines("10", "10")
				e.PaymentLines[0].BorrowedFrom = &BorrowedFrom{LenderUserID: "u2", LenderName: "Ravi"}
				return e
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBorrowedFromLender(t *testing.T) {
	if got := BorrowedFromMember("u2").Lender(); got != "u2" {
		t.Errorf("member Lender() = %v, want u2", got)
	}
	outsider := BorrowedFromOutsider("Ravi")
	if got := outsider.Lender(); got != ExternalLender {
		t.Errorf("outsider Lender() = %v, want %v", got, ExternalLender)
	}
	if outsider.IsMember() {
		t.Error("outsider should not be a member")
	}
}

func TestIncomeValidation(t *testing.T) {
	valid := Income{ID: "i1", FamilyID: "f1", CreatedBy: "u1", Source: "Salary", Amount: amt("1000")}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	valid.Amount = amt("-5")
	if err := valid.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("negative amount error = %v, want ErrValidation", err)
	}
}

func TestDebtCheckReplacement(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	open := DebtRecord{
		ID: "d1", FamilyID: "f1", LenderUserID: "u2", BorrowerUserID: "u1",
		Amount: amt("300"), Status: DebtOpen, CreatedAt: created,
	}
	settled := open.Settle(created.Add(time.Hour), PaymentUPI, "paid back")

	tests := []struct {
		name    string
		current DebtRecord
		next    func() DebtRecord
		want    error
	}{
		{
			name:    "settle open debt",
			current: open,
			next:    func() DebtRecord { return settled },
			want:    nil,
		},
		{
			name:    "change amount",
			current: open,
			next: func() DebtRecord {
				d := open
				d.Amount = amt("250")
				return d
			},
			want: ErrDebtAmountChanged,
		},
		{
			name:    "edit settlement message",
			current: settled,
			next: func() DebtRecord {
				d := settled
				d.SettlementMessage = "paid back in cash"
				d.SettlementMethod = PaymentCash
				return d
			},
			want: nil,
		},
		{
			name:    "reopen settled debt",
			current: settled,
			next: func() DebtRecord {
				d := settled
				d.Status = DebtOpen
				return d
			},
			want: ErrSettledDebt,
		},
		{
			name:    "change borrower on settled debt",
			current: settled,
			next: func() DebtRecord {
				d := settled
				d.BorrowerUserID = "u3"
				return d
			},
			want: ErrSettledDebt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.current.CheckReplacement(tt.next())
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckReplacement() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGoalApplyContribution(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	g := Goal{ID: "g1", FamilyID: "f1", GoalName: "Bike", TargetAmount: amt("50000"), IsActive: true}

	g = g.ApplyContribution(amt("5000"), at)
	if !g.CurrentAmount.Equal(amt("5000")) || !g.IsActive || g.CompletedAt != nil {
		t.Fatalf("after partial contribution: %+v", g)
	}
	if !g.Progress().Equal(amt("10")) {
		t.Errorf("Progress() = %v, want 10", g.Progress())
	}

	g = g.ApplyContribution(amt("45000"), at.Add(time.Hour))
	if g.IsActive {
		t.Error("goal should be inactive once the target is reached")
	}
	if g.CompletedAt == nil || !g.CompletedAt.Equal(at.Add(time.Hour)) {
		t.Errorf("CompletedAt = %v, want %v", g.CompletedAt, at.Add(time.Hour))
	}

	completed := *g.CompletedAt
	g = g.ApplyContribution(amt("100"), at.Add(2*time.Hour))
	if !g.CompletedAt.Equal(completed) {
		t.Error("CompletedAt must not move after completion")
	}
	if !g.Progress().Equal(amt("100")) {
		t.Errorf("Progress() = %v, want capped 100", g.Progress())
	}
}

func TestMirroredExpense(t *testing.T) {
	g := Goal{ID: "g1", FamilyID: "f1", GoalName: "Bike"}
	tr := GoalTransfer{
		ID: "t1", GoalID: "g1", FromAccountID: "acc", Amount: amt("5000"),
		TransferMethod: PaymentBank, ContributedBy: "u1",
	}

	e := tr.MirroredExpense(g, "INR")
	if e.ID != "goal-t1" {
		t.Errorf("ID = %v, want goal-t1", e.ID)
	}
	if e.Category != GoalCategory || e.FamilyID != "f1" {
		t.Errorf("Category/FamilyID = %v/%v", e.Category, e.FamilyID)
	}
	if len(e.PaymentLines) != 1 || e.PaymentLines[0].AccountID != "acc" || e.PaymentLines[0].Method != PaymentBank {
		t.Errorf("PaymentLines = %+v", e.PaymentLines)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("mirrored expense is invalid: %v", err)
	}
}

func TestBudgetPeriodBounds(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    BudgetPeriod
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"monthly", BudgetMonthly, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"weekly", BudgetWeekly, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Budget{Period: tt.period}.PeriodBounds(now)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("PeriodBounds() = %v, %v; want %v, %v", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestRecurringSchedule(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		frequency RecurringFrequency
		want      time.Time
	}{
		{FrequencyDaily, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)},
		{FrequencyWeekly, time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)},
		{FrequencyMonthly, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{FrequencyYearly, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			r := RecurringTransaction{Frequency: tt.frequency}
			if got := r.NextAfter(due); !got.Equal(tt.want) {
				t.Errorf("NextAfter() = %v, want %v", got, tt.want)
			}
		})
	}

	r := RecurringTransaction{IsActive: true, NextDueDate: due}
	if !r.IsDue(due.Add(9 * time.Hour)) {
		t.Error("should be due on its due date")
	}
	if r.IsDue(due.AddDate(0, 0, -1)) {
		t.Error("should not be due the day before")
	}
	r.IsActive = false
	if r.IsDue(due) {
		t.Error("inactive transaction should never be due")
	}
}
