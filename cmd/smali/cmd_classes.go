package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/smali/storage"
)

func newClassesCmd() *cobra.Command {
	var dbPath string
	var pkg string
	var search string
	var limit int
	var members bool

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List or search classes in an index database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := storage.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer idx.Close()

			var classes []storage.ClassSummary
			if search != "" {
				classes, err = idx.SearchClasses(search, limit)
			} else {
				classes, err = idx.Classes(pkg, limit)
			}
			if err != nil {
				return fmt.Errorf("query index: %w", err)
			}

			for _, c := range classes {
				fmt.Printf("%s (%s)\n", c.Name, c.Path)
				if !members {
					continue
				}
				if err := printMembers(idx, c.Descriptor); err != nil {
					return err
				}
			}
			fmt.Printf("%d classes\n", len(classes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbPath, "db", "d", "smali-index.db", "index database path")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "restrict to one package")
	cmd.Flags().StringVarP(&search, "search", "s", "", "full-text search query")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	cmd.Flags().BoolVarP(&members, "members", "m", false, "show fields and methods")

	return cmd
}

func printMembers(idx *storage.Index, descriptor string) error {
	fields, err := idx.Fields(descriptor)
	if err != nil {
		return fmt.Errorf("list fields: %w", err)
	}
	for _, f := range fields {
		fmt.Printf("    field  %s %s:%s\n", strings.Join(f.Modifiers, " "), f.Name, f.Descriptor)
	}

	methods, err := idx.Methods(descriptor)
	if err != nil {
		return fmt.Errorf("list methods: %w", err)
	}
	for _, m := range methods {
		fmt.Printf("    method %s %s%s\n", strings.Join(m.Modifiers, " "), m.Name, m.Descriptor)
	}
	return nil
}
