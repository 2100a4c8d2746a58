package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Create, join or show the active family",
}

var familyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new family with you as its admin",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		name, _ := cmd.Flags().GetString("name")
		admin, _ := cmd.Flags().GetString("admin")
		currency, _ := cmd.Flags().GetString("currency")
		if currency == "" {
			currency = s.cfg.DefaultCurrency
		}

		family, user, err := s.svc.CreateFamily(ctx, name, currency, admin)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Family '%s' created (currency %s)\n\n", family.Name, family.Currency)
		fmt.Printf("Invite code: %s\n", family.InviteCode)
		fmt.Printf("Share it with family members so they can run 'kharchapal family join'.\n")
		fmt.Printf("Signed in as %s (admin)\n", user.Name)
		return nil
	}),
}

var familyJoinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join an existing family with its invite code",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		code, _ := cmd.Flags().GetString("code")
		name, _ := cmd.Flags().GetString("name")

		family, user, err := s.svc.JoinFamily(ctx, code, name)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s joined family '%s'\n", user.Name, family.Name)
		return nil
	}),
}

var familyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active family and its members",
	RunE: withFamily(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		snap := s.app.Snapshot()
		fmt.Printf("Family:      %s\n", snap.CurrentFamily.Name)
		fmt.Printf("Invite code: %s\n", snap.CurrentFamily.InviteCode)
		fmt.Printf("Currency:    %s\n\n", snap.CurrentFamily.Currency)
		for _, u := range snap.Users {
			marker := " "
			if snap.CurrentUser != nil && u.ID == snap.CurrentUser.ID {
				marker = "*"
			}
			fmt.Printf("%s %-20s %-7s %s\n", marker, u.Name, u.Role, u.ID)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(familyCmd)
	familyCmd.AddCommand(familyCreateCmd, familyJoinCmd, familyShowCmd)

	familyCreateCmd.Flags().StringP("name", "n", "", "Family name")
	familyCreateCmd.Flags().StringP("admin", "a", "", "Your name")
	familyCreateCmd.Flags().StringP("currency", "c", "", "Currency code (default from DEFAULT_CURRENCY)")
	_ = familyCreateCmd.MarkFlagRequired("name")
	_ = familyCreateCmd.MarkFlagRequired("admin")

	familyJoinCmd.Flags().String("code", "", "Invite code")
	familyJoinCmd.Flags().StringP("name", "n", "", "Your name")
	_ = familyJoinCmd.MarkFlagRequired("code")
	_ = familyJoinCmd.MarkFlagRequired("name")
}
