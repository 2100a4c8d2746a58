package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType classifies what a family is saving for
type GoalType string

const (
	GoalVehiclePurchase GoalType = "vehicle_purchase"
	GoalHousing         GoalType = "housing"
	GoalTravel          GoalType = "travel"
	GoalWedding         GoalType = "wedding"
	GoalEmergencyFund   GoalType = "emergency_fund"
	GoalEducation       GoalType = "education"
	GoalElectronics     GoalType = "electronics"
	GoalFestival        GoalType = "festival"
	GoalBusiness        GoalType = "business"
	GoalGift            GoalType = "gift"
	GoalOther           GoalType = "other"
)

// GoalPriority orders goals for the family
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "high"
	PriorityMedium GoalPriority = "medium"
	PriorityLow    GoalPriority = "low"
)

// TransferType is how a goal contribution was initiated
type TransferType string

const (
	TransferManual           TransferType = "manual"
	TransferAuto             TransferType = "auto"
	TransferIncomePercentage TransferType = "income_percentage"
)

// GoalCategory is the expense category of mirrored goal contributions
const GoalCategory = "goal"

// Goal is a savings target
type Goal struct {
	ID                  string          `json:"id"`
	FamilyID            string          `json:"family_id"`
	CreatedBy           string          `json:"created_by"`
	GoalName            string          `json:"goal_name"`
	GoalType            GoalType        `json:"goal_type"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	CurrentAmount       decimal.Decimal `json:"current_amount"`
	TargetDate          *time.Time      `json:"target_date,omitempty"`
	Description         string          `json:"description,omitempty"`
	GoalIcon            string          `json:"goal_icon,omitempty"`
	Priority            GoalPriority    `json:"priority"`
	IsShared            bool            `json:"is_shared"`
	IsActive            bool            `json:"is_active"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	LinkedAccountID     string          `json:"linked_account_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	SyncStatus          SyncStatus      `json:"sync_status"`
}

// Validate checks required fields and the target amount
func (g Goal) Validate() error {
	return firstError(
		required("id", g.ID),
		required("family_id", g.FamilyID),
		required("goal_name", g.GoalName),
		positive("target_amount", g.TargetAmount),
	)
}

// ApplyContribution returns g with amount added. Reaching the target
// deactivates the goal and stamps its completion time once.
func (g Goal) ApplyContribution(amount decimal.Decimal, at time.Time) Goal {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.UpdatedAt = &at
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) && g.CompletedAt == nil {
		g.IsActive = false
		g.CompletedAt = &at
	}
	return g
}

// Progress returns the percentage of the target reached, capped at 100
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p.Round(2)
}

// GoalTransfer is one contribution toward a goal
type GoalTransfer struct {
	ID             string          `json:"id"`
	GoalID         string          `json:"goal_id"`
	FromAccountID  string          `json:"from_account_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	TransferType   TransferType    `json:"transfer_type"`
	TransferMethod PaymentMethod   `json:"transfer_method"`
	ContributedBy  string          `json:"contributed_by"`
	Notes          string          `json:"notes,omitempty"`
	TransferDate   time.Time       `json:"transfer_date"`
	CreatedAt      time.Time       `json:"created_at"`
	SyncStatus     SyncStatus      `json:"sync_status"`
}

// Validate checks required fields and the amount
func (t GoalTransfer) Validate() error {
	return firstError(
		required("id", t.ID),
		required("goal_id", t.GoalID),
		required("contributed_by", t.ContributedBy),
		positive("amount", t.Amount),
	)
}

// MirroredExpenseID is the id of the expense recorded for transfer id
func MirroredExpenseID(transferID string) string {
	return "goal-" + transferID
}

// MirroredExpense builds the expense that books transfer t against goal g
func (t GoalTransfer) MirroredExpense(g Goal, currency string) Expense {
	return Expense{
		ID:          MirroredExpenseID(t.ID),
		FamilyID:    g.FamilyID,
		CreatedBy:   t.ContributedBy,
		TotalAmount: t.Amount,
		Currency:    currency,
		Category:    GoalCategory,
		Date:        t.TransferDate,
		Notes:       "Goal contribution: " + g.GoalName,
		PaymentLines: []PaymentLine{{
			ID:          "payment-" + t.ID,
			Method:      t.TransferMethod,
			Amount:      t.Amount,
			PayerUserID: t.ContributedBy,
			AccountID:   t.FromAccountID,
			Note:        "Goal transfer to " + g.GoalName,
		}},
		Attachments: []string{},
		IsShared:    true,
		SyncStatus:  SyncSynced,
		CreatedAt:   t.CreatedAt,
	}
}
