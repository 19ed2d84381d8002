package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phrazzld/lingo-api/internal/api"
	"github.com/phrazzld/lingo-api/internal/service/ingestion"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var ownerID, file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a lesson JSON file for an owner and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			in := cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(filepath.Clean(file))
				if err != nil {
					return fmt.Errorf("failed to open lesson file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			req, err := readLesson(in)
			if err != nil {
				return err
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

			return runIngest(ctx, app.pipeline, ownerID, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id to ingest for")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "lesson JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

// readLesson decodes one ingestion request, rejecting unknown fields.
func readLesson(r io.Reader) (ingestion.Request, error) {
	var req ingestion.Request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return ingestion.Request{}, fmt.Errorf("failed to decode lesson: %w", err)
	}
	if dec.More() {
		return ingestion.Request{}, errors.New("failed to decode lesson: trailing data after JSON object")
	}
	return req, nil
}

// runIngest ingests req and writes the result as JSON to out. A partial
// result is still written when the ingestion fails.
func runIngest(ctx context.Context, ingester api.Ingester, ownerID string, req ingestion.Request, out io.Writer) error {
	result, err := ingester.Ingest(ctx, ownerID, req)
	if result != nil {
		if encErr := writeJSON(out, result); encErr != nil {
			return encErr
		}
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
