package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parisxmas/materai/internal/auth"
	"github.com/parisxmas/materai/internal/config"
	"github.com/parisxmas/materai/internal/models"
)

func newTokenCmd() *cobra.Command {
	var (
		sess models.Session
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := auth.GenerateToken(cfg.JWTSecret, sess, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&sess.UserID, "user", "", "User id (required)")
	cmd.Flags().StringVar(&sess.Email, "email", "", "Email")
	cmd.Flags().StringVar(&sess.Branch, "branch", "", "Branch (cabang) locked for the session")
	cmd.Flags().StringVar(&sess.Role, "role", "user", "Role")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
