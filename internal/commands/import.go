package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hisab-dev/hisab/internal/cashbook"
	"github.com/hisab-dev/hisab/internal/importer"
)

func newImportCommand() *cobra.Command {
	var booksDir, format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import statement CSVs from the import directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := loadBooks(booksDir)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}

			files, err := importer.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("Nothing to import")
				return nil
			}

			svc := cashbook.NewService(dir)
			for _, file := range files {
				n, err := importFile(svc, parser, file)
				if err != nil {
					return fmt.Errorf("importing %s: %w", file.Name, err)
				}
				if err := importer.MarkProcessed(dir, file.Name); err != nil {
					return err
				}
				log.Info().Str("file", file.Name).Int("transactions", n).Msg("imported")
				fmt.Printf("Imported %d transactions from %s\n", n, file.Name)
			}

			if _, err := autoCommit(dir, cfg, fmt.Sprintf("import: %d file(s)", len(files))); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&booksDir, "books", ".", "books directory")
	cmd.Flags().StringVar(&format, "format", "pos", "statement format")

	return cmd
}

func importFile(svc *cashbook.Service, parser importer.Parser, file importer.FileInfo) (int, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	txns, err := parser.Parse(f)
	if err != nil {
		return 0, err
	}

	for _, txn := range txns {
		if _, err := svc.Add(txn); err != nil {
			return 0, err
		}
	}
	return len(txns), nil
}
