package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kharchapal/internal/models"
	"kharchapal/internal/utils"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage cash, bank, card and wallet accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		id, _ := flags.GetString("id")
		name, _ := flags.GetString("name")
		accType, _ := flags.GetString("type")
		openingStr, _ := flags.GetString("opening")

		opening, err := parseAmount(openingStr)
		if err != nil {
			return err
		}
		if id == "" {
			id = utils.NewID()
		}

		account := models.Account{
			ID:             id,
			FamilyID:       snap.CurrentFamily.ID,
			Name:           name,
			Type:           models.AccountType(strings.ToLower(accType)),
			OpeningBalance: opening,
			Currency:       snap.CurrentFamily.Currency,
			CreatedBy:      snap.CurrentUser.ID,
		}
		if err := s.app.AddAccount(ctx, account); err != nil {
			return err
		}
		fmt.Printf("✓ Account '%s' added (id %s)\n", account.Name, account.ID)
		return nil
	}),
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts and their balances",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		for _, a := range s.app.Snapshot().Accounts {
			fmt.Printf("%-20s %-7s %12s  %s\n", a.Name, a.Type, a.CurrentBalance.StringFixed(2), a.ID)
		}
		return nil
	}),
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage savings goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a savings goal",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		targetStr, _ := flags.GetString("target")
		goalType, _ := flags.GetString("type")
		priority, _ := flags.GetString("priority")

		target, err := parseAmount(targetStr)
		if err != nil {
			return err
		}

		goal := models.Goal{
			ID:           utils.NewID(),
			FamilyID:     snap.CurrentFamily.ID,
			CreatedBy:    snap.CurrentUser.ID,
			GoalName:     name,
			GoalType:     models.GoalType(goalType),
			TargetAmount: target,
			Priority:     models.GoalPriority(priority),
			IsShared:     true,
			IsActive:     true,
		}
		if err := s.app.AddGoal(ctx, goal); err != nil {
			return err
		}
		fmt.Printf("✓ Goal '%s' added (id %s)\n", goal.GoalName, goal.ID)
		return nil
	}),
}

var goalContributeCmd = &cobra.Command{
	Use:   "contribute",
	Short: "Move money into a goal",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		goalID, _ := flags.GetString("goal")
		amountStr, _ := flags.GetString("amount")
		accountID, _ := flags.GetString("account")
		method, _ := flags.GetString("method")

		amount, err := parseAmount(amountStr)
		if err != nil {
			return err
		}

		transfer := models.GoalTransfer{
			ID:             utils.NewID(),
			GoalID:         goalID,
			FromAccountID:  accountID,
			Amount:         amount,
			TransferMethod: models.PaymentMethod(method),
			ContributedBy:  snap.CurrentUser.ID,
		}
		if err := s.app.AddGoalTransfer(ctx, transfer); err != nil {
			return err
		}

		// AddGoalTransfer leaves the goal itself untouched
		for _, g := range s.app.Snapshot().Goals {
			if g.ID != goalID {
				continue
			}
			updated := g.ApplyContribution(amount, time.Now())
			if err := s.app.UpdateGoal(ctx, updated); err != nil {
				return err
			}
			fmt.Printf("✓ Added %s to '%s' (%s%% of target)\n", amount, updated.GoalName, updated.Progress())
			if !updated.IsActive && updated.CompletedAt != nil {
				fmt.Println("🎉 Goal reached!")
			}
		}
		return nil
	}),
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals and their progress",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		for _, g := range s.app.Snapshot().Goals {
			state := "active"
			if !g.IsActive {
				state = "done"
			}
			fmt.Printf("%-20s %12s / %-12s %6s%%  %-6s %s\n", g.GoalName, g.CurrentAmount.StringFixed(2),
				g.TargetAmount.StringFixed(2), g.Progress(), state, g.ID)
		}
		return nil
	}),
}

var debtCmd = &cobra.Command{
	Use:   "debt",
	Short: "List and settle IOUs",
}

var debtListCmd = &cobra.Command{
	Use:   "list",
	Short: "List IOUs",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		names := make(map[string]string, len(snap.Users))
		for _, u := range snap.Users {
			names[u.ID] = u.Name
		}
		lender := func(d models.DebtRecord) string {
			if d.LenderName != "" {
				return d.LenderName
			}
			if n, ok := names[d.LenderUserID]; ok {
				return n
			}
			return d.LenderUserID
		}
		for _, d := range snap.Debts {
			fmt.Printf("%-8s %-15s owes %-15s %12s  %s\n", d.Status, names[d.BorrowerUserID], lender(d), d.Amount.StringFixed(2), d.ID)
		}
		return nil
	}),
}

var debtSettleCmd = &cobra.Command{
	Use:   "settle <debt-id>",
	Short: "Mark an IOU as settled",
	Args:  cobra.ExactArgs(1),
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		method, _ := cmd.Flags().GetString("method")
		message, _ := cmd.Flags().GetString("message")
		id := cmd.Flags().Arg(0)
		if err := s.app.SettleDebt(ctx, id, models.PaymentMethod(method), message); err != nil {
			return err
		}
		fmt.Println("✓ Debt settled")
		return nil
	}),
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage category budgets",
}

var budgetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a budget for a category",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		category, _ := flags.GetString("category")
		limitStr, _ := flags.GetString("limit")
		period, _ := flags.GetString("period")
		threshold, _ := flags.GetInt("threshold")

		limit, err := parseAmount(limitStr)
		if err != nil {
			return err
		}

		budget := models.Budget{
			ID:                     utils.NewID(),
			FamilyID:               snap.CurrentFamily.ID,
			Category:               category,
			LimitAmount:            limit,
			Period:                 models.BudgetPeriod(period),
			NotifyThresholdPercent: threshold,
			CreatedByUserID:        snap.CurrentUser.ID,
		}
		if err := s.app.AddBudget(ctx, budget); err != nil {
			return err
		}
		fmt.Printf("✓ %s budget of %s for %s added\n", budget.Period, budget.LimitAmount, budget.Category)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(accountCmd, goalCmd, debtCmd, budgetCmd)
	accountCmd.AddCommand(accountAddCmd, accountListCmd)
	goalCmd.AddCommand(goalAddCmd, goalContributeCmd, goalListCmd)
	debtCmd.AddCommand(debtListCmd, debtSettleCmd)
	budgetCmd.AddCommand(budgetAddCmd)

	accountAddCmd.Flags().String("id", "", "Account id (default generated)")
	accountAddCmd.Flags().StringP("name", "n", "", "Account name")
	accountAddCmd.Flags().StringP("type", "t", string(models.AccountBank), "cash, bank, card or wallet")
	accountAddCmd.Flags().String("opening", "", "Opening balance")
	_ = accountAddCmd.MarkFlagRequired("name")
	_ = accountAddCmd.MarkFlagRequired("opening")

	goalAddCmd.Flags().StringP("name", "n", "", "Goal name")
	goalAddCmd.Flags().String("target", "", "Target amount")
	goalAddCmd.Flags().String("type", string(models.GoalOther), "Goal type")
	goalAddCmd.Flags().String("priority", string(models.PriorityMedium), "high, medium or low")
	_ = goalAddCmd.MarkFlagRequired("name")
	_ = goalAddCmd.MarkFlagRequired("target")

	goalContributeCmd.Flags().String("goal", "", "Goal id")
	goalContributeCmd.Flags().StringP("amount", "a", "", "Amount")
	goalContributeCmd.Flags().String("account", "", "Account the money leaves from")
	goalContributeCmd.Flags().String("method", string(models.PaymentBank), "Transfer method")
	_ = goalContributeCmd.MarkFlagRequired("goal")
	_ = goalContributeCmd.MarkFlagRequired("amount")

	debtSettleCmd.Flags().String("method", string(models.PaymentCash), "How it was paid back")
	debtSettleCmd.Flags().String("message", "", "Settlement note")

	budgetAddCmd.Flags().StringP("category", "c", "", "Category")
	budgetAddCmd.Flags().String("limit", "", "Limit amount")
	budgetAddCmd.Flags().String("period", string(models.BudgetMonthly), "monthly or weekly")
	budgetAddCmd.Flags().Int("threshold", 80, "Warn at this percent of the limit")
	_ = budgetAddCmd.MarkFlagRequired("category")
	_ = budgetAddCmd.MarkFlagRequired("limit")
}
