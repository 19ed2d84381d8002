package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newDueCmd() *cobra.Command {
	var ownerID, deckFlag string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Print the flashcards due for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var deckID *uuid.UUID
			if deckFlag != "" {
				id, err := uuid.Parse(deckFlag)
				if err != nil {
					return fmt.Errorf("invalid --deck: %w", err)
				}
				deckID = &id
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app, err := openApplication(ctx, cfg, cliLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer app.cleanup()

			due, err := app.reviewService.Due(ctx, ownerID, deckID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), due)
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id")
	cmd.Flags().StringVar(&deckFlag, "deck", "", "restrict to one deck id")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
