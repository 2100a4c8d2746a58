package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"kharchapal/internal/models"
	"kharchapal/internal/utils"
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record and list expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense, optionally split across payment lines",
	Long: `Record an expense. Each --line is method:amount[:account or lender], for example

  kharchapal expense add --category Groceries --line card:500:hdfc --line cash:300
  kharchapal expense add --category Rent --line borrowed:300:Arjun

Borrowed lines create an IOU to the lender. Without --line the whole
amount is paid in cash.`,
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		amountStr, _ := flags.GetString("amount")
		category, _ := flags.GetString("category")
		notes, _ := flags.GetString("notes")
		dateStr, _ := flags.GetString("date")
		shared, _ := flags.GetBool("shared")
		specs, _ := flags.GetStringArray("line")

		date, err := parseDate(dateStr, time.Now())
		if err != nil {
			return err
		}

		id := utils.NewID()
		var lines []models.PaymentLine
		if len(specs) == 0 {
			specs = []string{"cash:" + amountStr}
		}
		for i, input := range specs {
			l, err := parseLine(input, id+"-"+strconv.Itoa(i+1), snap.CurrentUser.ID, snap.Users)
			if err != nil {
				return err
			}
			lines = append(lines, l)
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Amount)
		}
		if amountStr != "" {
			if total, err = parseAmount(amountStr); err != nil {
				return err
			}
		}

		expense := models.Expense{
			ID:           id,
			FamilyID:     snap.CurrentFamily.ID,
			CreatedBy:    snap.CurrentUser.ID,
			TotalAmount:  total,
			Currency:     snap.CurrentFamily.Currency,
			Category:     category,
			Date:         date,
			Notes:        notes,
			PaymentLines: lines,
			IsShared:     shared,
		}
		if err := s.app.AddExpense(ctx, expense); err != nil {
			return err
		}
		fmt.Printf("✓ Recorded %s %s for %s\n", expense.TotalAmount, expense.Currency, expense.Category)
		return nil
	}),
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the expenses you can see",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		for _, e := range s.app.VisibleExpenses() {
			fmt.Printf("%s  %-16s %12s  %s\n", e.Date.Format(dateLayout), e.Category, e.TotalAmount.StringFixed(2), e.Notes)
		}
		return nil
	}),
}

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Record income",
}

var incomeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record income",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		flags := cmd.Flags()
		amountStr, _ := flags.GetString("amount")
		source, _ := flags.GetString("source")
		notes, _ := flags.GetString("notes")
		dateStr, _ := flags.GetString("date")
		shared, _ := flags.GetBool("shared")

		amount, err := parseAmount(amountStr)
		if err != nil {
			return err
		}
		date, err := parseDate(dateStr, time.Now())
		if err != nil {
			return err
		}

		income := models.Income{
			ID:        utils.NewID(),
			FamilyID:  snap.CurrentFamily.ID,
			CreatedBy: snap.CurrentUser.ID,
			Amount:    amount,
			Currency:  snap.CurrentFamily.Currency,
			Source:    source,
			Date:      date,
			Notes:     notes,
			IsShared:  shared,
		}
		if err := s.app.AddIncome(ctx, income); err != nil {
			return err
		}
		fmt.Printf("✓ Recorded income of %s %s from %s\n", income.Amount, income.Currency, income.Source)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(expenseCmd, incomeCmd)
	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd)
	incomeCmd.AddCommand(incomeAddCmd)

	expenseAddCmd.Flags().StringP("amount", "a", "", "Total amount (default: sum of the lines)")
	expenseAddCmd.Flags().StringP("category", "c", "", "Category")
	expenseAddCmd.Flags().StringArrayP("line", "l", nil, "Payment line method:amount[:account or lender] (repeatable)")
	expenseAddCmd.Flags().String("notes", "", "Notes")
	expenseAddCmd.Flags().String("date", "", "Date as YYYY-MM-DD (default today)")
	expenseAddCmd.Flags().Bool("shared", false, "Visible to every family member")
	_ = expenseAddCmd.MarkFlagRequired("category")

	incomeAddCmd.Flags().StringP("amount", "a", "", "Amount")
	incomeAddCmd.Flags().StringP("source", "s", "Salary", "Income source")
	incomeAddCmd.Flags().String("notes", "", "Notes")
	incomeAddCmd.Flags().String("date", "", "Date as YYYY-MM-DD (default today)")
	incomeAddCmd.Flags().Bool("shared", false, "Visible to every family member")
	_ = incomeAddCmd.MarkFlagRequired("amount")
}
