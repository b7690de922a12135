package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/internal/domain/textextract"
)

func newExtractCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the skills found in a resume file (txt, md, pdf, docx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			found, err := extractFile(cfg, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(map[string]any{"file": args[0], "skills": found})
			}
			for _, s := range found {
				_, _ = fmt.Fprintln(out, s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func extractFile(cfg *config.Config, path string) ([]string, error) {
	contentType := textextract.DetectContentType(path, "")
	if !textextract.Supported(contentType) {
		return nil, fmt.Errorf("%s: %w", path, textextract.ErrUnsupportedType)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, err
	}
	text, err := textextract.Extract(contentType, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vocabulary(cfg).Extract(text), nil
}
