package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/smali/lsp"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate smali files and report syntax failures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failures := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				diagnostics := lsp.Check(string(data))
				if len(diagnostics) == 0 {
					fmt.Printf("[OK] %s\n", path)
					continue
				}
				failures++
				for _, d := range diagnostics {
					fmt.Printf("[ERROR] %s:%d: %s\n", path, d.Range.Start.Line+1, d.Message)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed", failures, len(args))
			}
			return nil
		},
	}
}
