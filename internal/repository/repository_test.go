package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kharchapal/internal/database"
	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

func setupTestRepo(t *testing.T) (*Repository, *store.Store) {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	s, err := store.Open(context.Background(), db, store.SchemaVersion, store.Migrations)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func TestFamilyAndUsers(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	family := models.Family{ID: "f1", Name: "Sharma", InviteCode: "AB12CD", Currency: "INR", CreatedAt: time.Now().UTC()}
	if err := repo.AddFamily(ctx, family); err != nil {
		t.Fatalf("AddFamily() error = %v", err)
	}
	if err := repo.AddFamily(ctx, family); !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("duplicate AddFamily() error = %v, want ErrDuplicateKey", err)
	}

	got, err := repo.GetFamilyByInviteCode(ctx, "AB12CD")
	if err != nil || got == nil || got.ID != "f1" {
		t.Fatalf("GetFamilyByInviteCode() = %v, %v", got, err)
	}
	missing, err := repo.GetFamilyByInviteCode(ctx, "ZZZZZZ")
	if err != nil || missing != nil {
		t.Errorf("GetFamilyByInviteCode(unknown) = %v, %v; want nil, nil", missing, err)
	}

	for _, u := range []models.User{
		{ID: "u1", FamilyID: "f1", Name: "Priya", Role: models.RoleAdmin},
		{ID: "u2", FamilyID: "f1", Name: "Arjun", Role: models.RoleMember},
		{ID: "u3", FamilyID: "f2", Name: "Other", Role: models.RoleAdmin},
	} {
		if err := repo.AddUser(ctx, u); err != nil {
			t.Fatalf("AddUser(%s) error = %v", u.ID, err)
		}
	}
	users, err := repo.GetUsersByFamily(ctx, "f1")
	if err != nil {
		t.Fatalf("GetUsersByFamily() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("GetUsersByFamily() returned %d users, want 2", len(users))
	}

	user, err := repo.GetUser(ctx, "nobody")
	if err != nil || user != nil {
		t.Errorf("GetUser(unknown) = %v, %v; want nil, nil", user, err)
	}
}

func TestUpdateIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	acc := models.Account{
		ID: "a1", FamilyID: "f1", Name: "HDFC", Type: models.AccountBank,
		OpeningBalance: decimal.NewFromInt(10000), CurrentBalance: decimal.NewFromInt(10000),
	}
	if err := repo.UpdateAccount(ctx, acc); err != nil {
		t.Fatalf("UpdateAccount() on new record error = %v", err)
	}
	acc.CurrentBalance = decimal.NewFromInt(8500)
	if err := repo.UpdateAccount(ctx, acc); err != nil {
		t.Fatalf("UpdateAccount() error = %v", err)
	}

	got, err := repo.GetAccount(ctx, "a1")
	if err != nil || got == nil {
		t.Fatalf("GetAccount() = %v, %v", got, err)
	}
	if !got.CurrentBalance.Equal(decimal.NewFromInt(8500)) {
		t.Errorf("CurrentBalance = %v, want 8500", got.CurrentBalance)
	}
}

func TestGoalTransfersByFamily(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	goals := []models.Goal{
		{ID: "g1", FamilyID: "f1", GoalName: "Bike"},
		{ID: "g2", FamilyID: "f1", GoalName: "Trip"},
		{ID: "g3", FamilyID: "f2", GoalName: "Other"},
	}
	for _, g := range goals {
		if err := repo.AddGoal(ctx, g); err != nil {
			t.Fatalf("AddGoal() error = %v", err)
		}
	}
	for i, goalID := range []string{"g1", "g2", "g2", "g3"} {
		tr := models.GoalTransfer{ID: string(rune('a' + i)), GoalID: goalID, Amount: decimal.NewFromInt(100)}
		if err := repo.AddGoalTransfer(ctx, tr); err != nil {
			t.Fatalf("AddGoalTransfer() error = %v", err)
		}
	}

	byGoal, err := repo.GetGoalTransfersByGoal(ctx, "g2")
	if err != nil {
		t.Fatalf("GetGoalTransfersByGoal() error = %v", err)
	}
	if len(byGoal) != 2 {
		t.Errorf("GetGoalTransfersByGoal() returned %d, want 2", len(byGoal))
	}

	byFamily, err := repo.GetGoalTransfersByFamily(ctx, "f1")
	if err != nil {
		t.Fatalf("GetGoalTransfersByFamily() error = %v", err)
	}
	if len(byFamily) != 3 {
		t.Errorf("GetGoalTransfersByFamily() returned %d, want 3", len(byFamily))
	}
}

func TestDeletableEntities(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	cat := models.CustomCategory{ID: "c1", FamilyID: "f1", Name: "Pets", Type: models.CategoryExpense}
	if err := repo.AddCustomCategory(ctx, cat); err != nil {
		t.Fatalf("AddCustomCategory() error = %v", err)
	}
	rt := models.RecurringTransaction{ID: "r1", FamilyID: "f1", Amount: decimal.NewFromInt(999), Frequency: models.FrequencyMonthly}
	if err := repo.AddRecurringTransaction(ctx, rt); err != nil {
		t.Fatalf("AddRecurringTransaction() error = %v", err)
	}

	if err := repo.DeleteCustomCategory(ctx, "c1"); err != nil {
		t.Fatalf("DeleteCustomCategory() error = %v", err)
	}
	if err := repo.DeleteRecurringTransaction(ctx, "r1"); err != nil {
		t.Fatalf("DeleteRecurringTransaction() error = %v", err)
	}

	cats, _ := repo.GetCustomCategoriesByFamily(ctx, "f1")
	rts, _ := repo.GetRecurringTransactionsByFamily(ctx, "f1")
	if len(cats) != 0 || len(rts) != 0 {
		t.Errorf("after delete: %d categories, %d recurring; want 0, 0", len(cats), len(rts))
	}
}

func TestInTx(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	boom := errors.New("boom")
	err := repo.InTx(ctx, func(tx *Repository) error {
		if err := tx.AddIncome(ctx, models.Income{ID: "i1", FamilyID: "f1", Amount: decimal.NewFromInt(5)}); err != nil {
			return err
		}
		// nested InTx joins the outer batch
		return tx.InTx(ctx, func(inner *Repository) error {
			if err := inner.AddDebt(ctx, models.DebtRecord{ID: "d1", FamilyID: "f1", Status: models.DebtOpen}); err != nil {
				return err
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want boom", err)
	}

	income, _ := repo.GetIncomeByFamily(ctx, "f1")
	debts, _ := repo.GetDebtsByFamily(ctx, "f1")
	if len(income) != 0 || len(debts) != 0 {
		t.Errorf("rolled back batch left %d income, %d debts", len(income), len(debts))
	}

	err = repo.InTx(ctx, func(tx *Repository) error {
		return tx.AddDebt(ctx, models.DebtRecord{ID: "d1", FamilyID: "f1", Status: models.DebtOpen})
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
	open, err := repo.GetDebtsByStatus(ctx, models.DebtOpen)
	if err != nil || len(open) != 1 {
		t.Errorf("GetDebtsByStatus(open) = %d, %v; want 1", len(open), err)
	}
}

func TestSyncQueue(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	items := []models.SyncItem{
		{ID: "s1", EntityType: "expense", EntityID: "e1", Status: models.SyncPending},
		{ID: "s2", EntityType: "expense", EntityID: "e2", Status: models.SyncSynced},
	}
	for _, item := range items {
		if err := repo.AddSyncItem(ctx, item); err != nil {
			t.Fatalf("AddSyncItem() error = %v", err)
		}
	}
	pending, err := repo.GetPendingSyncItems(ctx)
	if err != nil {
		t.Fatalf("GetPendingSyncItems() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "s1" {
		t.Errorf("GetPendingSyncItems() = %+v, want only s1", pending)
	}
}

func TestSessionPointers(t *testing.T) {
	ctx := context.Background()
	_, s := setupTestRepo(t)
	settings := NewSettingsRepository(s)

	user, family, err := settings.SessionPointers(ctx)
	if err != nil || user != "" || family != "" {
		t.Fatalf("empty SessionPointers() = %q, %q, %v", user, family, err)
	}

	if err := settings.SetSetting(ctx, CurrentUserKey, "u1"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := settings.SetSetting(ctx, CurrentFamilyKey, "f1"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	user, family, err = settings.SessionPointers(ctx)
	if err != nil || user != "u1" || family != "f1" {
		t.Errorf("SessionPointers() = %q, %q, %v; want u1, f1", user, family, err)
	}

	if err := settings.ClearSessionPointers(ctx); err != nil {
		t.Fatalf("ClearSessionPointers() error = %v", err)
	}
	user, family, _ = settings.SessionPointers(ctx)
	if user != "" || family != "" {
		t.Errorf("after clear: %q, %q", user, family)
	}
}
