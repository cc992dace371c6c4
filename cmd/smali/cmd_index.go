package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/smali/model"
	"github.com/dhamidi/smali/storage"
)

func newIndexCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Index a smali file or directory tree into a class database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := storage.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer idx.Close()

			files, err := collectSmaliFiles(args[0])
			if err != nil {
				return err
			}

			indexed := 0
			var errors []string
			for _, file := range files {
				class, err := model.FromFile(file)
				if err != nil {
					errors = append(errors, fmt.Sprintf("parse %s: %v", file, err))
					continue
				}
				if err := idx.IndexClass(class, file); err != nil {
					return fmt.Errorf("index %s: %w", file, err)
				}
				indexed++
			}

			fmt.Printf("Indexed %d of %d files into %s\n", indexed, len(files), dbPath)
			for _, e := range errors {
				fmt.Printf("  - %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbPath, "db", "d", "smali-index.db", "index database path")

	return cmd
}

func collectSmaliFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".smali" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	return files, nil
}
