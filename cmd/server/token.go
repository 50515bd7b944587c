package main

import (
	"fmt"

	"github.com/Vivek290100/CodeMaster/internal/common/security"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/platform/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenArgs struct {
	userID string
	role   string
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a JWT signed with the configured secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenArgs.role != model.RoleSolver && tokenArgs.role != model.RoleAuthor {
			return fmt.Errorf("--role must be %s or %s", model.RoleSolver, model.RoleAuthor)
		}
		if tokenArgs.userID == "" {
			tokenArgs.userID = uuid.NewString()
		}

		cfg := config.Load()
		security.InitJWT(cfg.JWTKey, cfg.JWTExp)
		token, err := security.GenerateToken(tokenArgs.userID, tokenArgs.role)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenArgs.userID, "user-id", "", "user id claim (random when empty)")
	tokenCmd.Flags().StringVar(&tokenArgs.role, "role", model.RoleAuthor, "solver or author")
}
