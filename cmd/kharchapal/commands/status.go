package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"kharchapal/internal/config"
	"kharchapal/internal/models"
	"kharchapal/internal/service"
	"kharchapal/internal/store"
	"kharchapal/internal/utils"
)

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show spending against each budget for the current period",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		for _, st := range s.app.BudgetStatus(time.Now()) {
			flag := ""
			switch {
			case st.OverLimit:
				flag = "  ⚠ over limit"
			case st.OverThreshold:
				flag = "  ⚠ near limit"
			}
			fmt.Printf("%-15s %-8s %12s / %-12s %6s%%%s\n", st.Budget.Category, st.Budget.Period,
				st.Spent.StringFixed(2), st.Budget.LimitAmount.StringFixed(2), st.Percent, flag)
		}
		return nil
	}),
}

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Manage recurring bills and subscriptions",
}

var recurringAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring transaction",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		amountStr, _ := flags.GetString("amount")
		category, _ := flags.GetString("category")
		description, _ := flags.GetString("description")
		frequency, _ := flags.GetString("frequency")
		startStr, _ := flags.GetString("start")
		accountID, _ := flags.GetString("account")
		method, _ := flags.GetString("method")
		autoDeduct, _ := flags.GetBool("auto")

		amount, err := parseAmount(amountStr)
		if err != nil {
			return err
		}
		start, err := parseDate(startStr, time.Now())
		if err != nil {
			return err
		}

		rt := models.RecurringTransaction{
			ID:            utils.NewID(),
			FamilyID:      snap.CurrentFamily.ID,
			Amount:        amount,
			Currency:      snap.CurrentFamily.Currency,
			Category:      category,
			Description:   description,
			Frequency:     models.RecurringFrequency(frequency),
			StartDate:     start,
			NextDueDate:   start,
			IsActive:      true,
			PaymentMethod: models.PaymentMethod(method),
			AccountID:     accountID,
			CreatedBy:     snap.CurrentUser.ID,
			AutoDeduct:    autoDeduct,
			Notify:        true,
		}
		if err := s.app.AddRecurringTransaction(ctx, rt); err != nil {
			return err
		}
		fmt.Printf("✓ %s %s of %s added, first due %s\n", rt.Frequency, rt.Category, rt.Amount, rt.NextDueDate.Format(dateLayout))
		return nil
	}),
}

var recurringProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Record every auto-deducted transaction that has fallen due",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		n, err := service.NewRecurringService(s.app).ProcessDue(ctx, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("✓ Recorded %d expense(s)\n", n)
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active family and a summary of its data",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		printBanner()
		snap := s.app.Snapshot()
		if snap.CurrentFamily == nil {
			fmt.Println("No active family.")
			return nil
		}

		spent := decimal.Zero
		for _, e := range s.app.VisibleExpenses() {
			spent = spent.Add(e.TotalAmount)
		}
		earned := decimal.Zero
		for _, i := range s.app.VisibleIncome() {
			earned = earned.Add(i.Amount)
		}
		open := 0
		for _, d := range snap.Debts {
			if d.Status == models.DebtOpen {
				open++
			}
		}

		fmt.Printf("Family:   %s (%s)\n", snap.CurrentFamily.Name, snap.CurrentFamily.Currency)
		fmt.Printf("You:      %s [%s]\n", snap.CurrentUser.Name, snap.CurrentUser.Role)
		fmt.Printf("Members:  %d\n", len(snap.Users))
		fmt.Printf("Expenses: %d (%s)\n", len(snap.Expenses), spent.StringFixed(2))
		fmt.Printf("Income:   %d (%s)\n", len(snap.Income), earned.StringFixed(2))
		fmt.Printf("Open IOUs: %d\n", open)
		fmt.Printf("Accounts: %d  Goals: %d  Budgets: %d\n", len(snap.Accounts), len(snap.Goals), len(snap.Budgets))
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the active user and family; recorded data is kept",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		if err := s.svc.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Logged out")
		return nil
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all local data",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Print("This will delete every family, transaction and setting on this device. Type 'yes' to continue: ")
			var answer string
			fmt.Scanln(&answer)
			if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
				fmt.Println("Reset cancelled")
				return nil
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := store.NewOpener(config.Load()).Destroy(ctx); err != nil {
			return fmt.Errorf("failed to reset local data: %w", err)
		}
		fmt.Println("✓ Local data deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recurringCmd, statusCmd, logoutCmd, resetCmd)
	budgetCmd.AddCommand(budgetStatusCmd)
	recurringCmd.AddCommand(recurringAddCmd, recurringProcessCmd)

	recurringAddCmd.Flags().StringP("amount", "a", "", "Amount per occurrence")
	recurringAddCmd.Flags().StringP("category", "c", "", "Category")
	recurringAddCmd.Flags().String("description", "", "Description")
	recurringAddCmd.Flags().StringP("frequency", "f", string(models.FrequencyMonthly), "daily, weekly, monthly or yearly")
	recurringAddCmd.Flags().String("start", "", "First due date (YYYY-MM-DD, default today)")
	recurringAddCmd.Flags().String("account", "", "Account to debit")
	recurringAddCmd.Flags().String("method", string(models.PaymentCash), "Payment method")
	recurringAddCmd.Flags().Bool("auto", false, "Record it automatically when due")
	_ = recurringAddCmd.MarkFlagRequired("amount")
	_ = recurringAddCmd.MarkFlagRequired("category")

	resetCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
}
