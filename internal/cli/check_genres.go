package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/booknet/internal/services"
)

// ErrHierarchyBroken is returned when the genre tree has cycles or orphans.
var ErrHierarchyBroken = errors.New("genre hierarchy has problems")

// CheckGenresCommand walks every genre and reports parent loops and
// dangling parent links.
type CheckGenresCommand struct {
	backendFlags

	Verbose bool

	Out io.Writer
}

func NewCheckGenresCommand() *CheckGenresCommand {
	return &CheckGenresCommand{Out: os.Stdout}
}

func (cmd *CheckGenresCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-genres", flag.ContinueOnError)

	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every genre checked")
	cmd.backendFlags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-genres [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch all genres and report parent cycles and missing parents.\n")
		fmt.Fprintf(os.Stderr, "Exits with a non-zero status when a problem is found.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CheckGenresCommand) Run() error {
	if cmd.Out == nil {
		cmd.Out = os.Stdout
	}

	fmt.Fprintln(cmd.Out, "Genre Hierarchy Check")
	fmt.Fprintln(cmd.Out, "=====================")

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	ctx, registry, err := cmd.connect(ctx)
	if err != nil {
		return err
	}

	genres, err := registry.Genres.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}
	fmt.Fprintf(cmd.Out, "Genres: %d\n", len(genres))

	if cmd.Verbose {
		for _, g := range genres {
			parent := g.ParentID()
			if parent == "" {
				parent = "-"
			}
			fmt.Fprintf(cmd.Out, "  %s %q (parent: %s)\n", g.ID, g.Nombre, parent)
		}
	}

	report := services.AnalyzeHierarchy(genres)
	if report.OK() {
		fmt.Fprintln(cmd.Out, "\nNo problems found")
		return nil
	}

	if len(report.Cycles) > 0 {
		fmt.Fprintf(cmd.Out, "\n%d cycles:\n", len(report.Cycles))
		for _, cycle := range report.Cycles {
			fmt.Fprintf(cmd.Out, "  [CYCLE] %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
		}
	}
	if len(report.Orphans) > 0 {
		fmt.Fprintf(cmd.Out, "\n%d genres with a missing parent:\n", len(report.Orphans))
		for _, id := range report.Orphans {
			fmt.Fprintf(cmd.Out, "  [ORPHAN] %s\n", id)
		}
	}

	return ErrHierarchyBroken
}
