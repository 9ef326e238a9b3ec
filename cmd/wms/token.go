package main

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var u auth.UserContext
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				ttl = time.Duration(cfg.JWT.TTLMinutes) * time.Minute
			}
			token, exp, err := auth.NewTokenManager(cfg.JWT.SecretKey, ttl).GenerateToken(u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&u.UserID, "user-id", "", "user id (required)")
	cmd.Flags().StringVar(&u.Username, "username", "", "username")
	cmd.Flags().StringVar(&u.Role, "role", auth.RoleStaff, "role: admin or staff")
	cmd.Flags().StringVar(&u.Name, "name", "", "display name")
	cmd.Flags().StringVar(&u.Email, "email", "", "email address")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_TTL_MINUTES)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
