package main

import (
	"fmt"

	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token for an owner id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := jwtService.GenerateToken(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id placed in the sub claim")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
