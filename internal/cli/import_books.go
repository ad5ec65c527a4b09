package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/mrlokans/booknet/internal/services"
)

// ImportBooksCommand uploads a JSON bulk import file to the backend.
type ImportBooksCommand struct {
	backendFlags

	FilePath string
	Verbose  bool
	DryRun   bool

	Out io.Writer
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{Out: os.Stdout}
}

func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-books", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the JSON file with the books to import (required)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print per-book import errors")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without uploading it")
	cmd.backendFlags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Upload a JSON file of books to the BookNet backend.\n")
		fmt.Fprintf(os.Stderr, "The file must be JSON and at most %d MB.\n\n", services.MaxImportBytes>>20)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -file libros.json -username admin\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-books -file libros.json -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportBooksCommand) Run() error {
	if cmd.Out == nil {
		cmd.Out = os.Stdout
	}

	fmt.Fprintln(cmd.Out, "Book Import")
	fmt.Fprintln(cmd.Out, "===========")

	info, err := os.Stat(cmd.FilePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("import file not found: %s", cmd.FilePath)
	}
	if err != nil {
		return fmt.Errorf("failed to stat import file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(cmd.FilePath))
	fmt.Fprintf(cmd.Out, "File: %s (%d bytes)\n", cmd.FilePath, info.Size())

	if err := services.ValidateImportFile(filepath.Base(cmd.FilePath), contentType, info.Size()); err != nil {
		return err
	}

	if cmd.DryRun {
		fmt.Fprintln(cmd.Out, "\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	ctx, registry, err := cmd.connect(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(cmd.Out, "Uploading to %s...\n", cmd.BackendURL)
	result, err := registry.Books.ImportFile(ctx, filepath.Base(cmd.FilePath), contentType, info.Size(), file)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintln(cmd.Out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.Out, "Imported: %d\n", result.Imported)
	fmt.Fprintf(cmd.Out, "Failed: %d\n", result.Failed)

	if cmd.Verbose && len(result.Errors) > 0 {
		fmt.Fprintf(cmd.Out, "\n%d errors occurred:\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(cmd.Out, "  [ERROR] %s\n", msg)
		}
	}

	return nil
}
