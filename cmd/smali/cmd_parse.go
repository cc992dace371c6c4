package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/smali/format"
	"github.com/dhamidi/smali/model"
	"github.com/dhamidi/smali/reader"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool
	var validate bool
	var events bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .smali file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []reader.Option
			if !includeComments {
				opts = append(opts, reader.WithoutComments())
			}
			if validate {
				opts = append(opts, reader.WithValidation())
			}

			if events {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				if err := reader.New(opts...).Visit(f, &eventPrinter{w: os.Stdout}); err != nil {
					return fmt.Errorf("parse %s: %w", args[0], err)
				}
				return nil
			}

			class, err := model.FromFile(args[0], opts...)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "smali":
				encoder = format.NewSmaliEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(class); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, smali)")
	cmd.Flags().BoolVar(&includeComments, "comments", true, "forward comments while parsing")
	cmd.Flags().BoolVar(&validate, "validate", false, "strict keyword and descriptor checking")
	cmd.Flags().BoolVar(&events, "events", false, "print the raw parse event trace instead")

	return cmd
}
