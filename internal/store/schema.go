package store

import "strings"

// Collection names
const (
	Users                 = "users"
	Families              = "families"
	Expenses              = "expenses"
	Income                = "income"
	Debts                 = "debts"
	Budgets               = "budgets"
	Accounts              = "accounts"
	Goals                 = "goals"
	GoalTransfers         = "goal_transfers"
	SyncQueue             = "syncQueue"
	CustomCategories      = "custom_categories"
	RecurringTransactions = "recurring_transactions"
)

// Collection is a named set of records keyed by their "id" field, with
// secondary indexes on other top-level fields.
type Collection struct {
	Name    string
	Indexes []string
}

func (c Collection) table() string {
	return strings.ToLower(c.Name)
}

func (c Collection) hasIndex(name string) bool {
	for _, idx := range c.Indexes {
		if idx == name {
			return true
		}
	}
	return false
}

// Migration adds collections when the store moves up to Version
type Migration struct {
	Version     int
	Collections []Collection
}

// SchemaVersion is the schema the application opens the store at
const SchemaVersion = 4

// Migrations lists every collection by the version that introduced it
var Migrations = []Migration{
	{
		Version: 1,
		Collections: []Collection{
			{Name: Users, Indexes: []string{"family_id"}},
			{Name: Families, Indexes: []string{"invite_code"}},
			{Name: Expenses, Indexes: []string{"family_id", "created_by"}},
			{Name: Income, Indexes: []string{"family_id", "created_by"}},
			{Name: Debts, Indexes: []string{"family_id", "status"}},
			{Name: Budgets, Indexes: []string{"family_id"}},
		},
	},
	{
		Version: 2,
		Collections: []Collection{
			{Name: Accounts, Indexes: []string{"family_id"}},
		},
	},
	{
		Version: 3,
		Collections: []Collection{
			{Name: Goals, Indexes: []string{"family_id"}},
			{Name: GoalTransfers, Indexes: []string{"goal_id"}},
			{Name: SyncQueue, Indexes: []string{"status"}},
		},
	},
	{
		Version: 4,
		Collections: []Collection{
			{Name: CustomCategories, Indexes: []string{"family_id"}},
			{Name: RecurringTransactions, Indexes: []string{"family_id"}},
		},
	},
}
