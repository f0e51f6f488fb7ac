package relwatch

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/roemer/relwatch/pkg/common"
)

// Resolves all selected products once and prints the result as table.
func CheckCmd(args []string) error {
	// Flags and help for the command
	flags := &commonFlags{}
	flagSet := flag.NewFlagSet("check", flag.ExitOnError)
	flags.register(flagSet)
	flagSet.Usage = func() { printCmdUsage(flagSet, "check", "") }
	flagSet.Parse(args)

	// Logs go to stderr so the table can be piped
	logger := flags.newLogger(os.Stderr)

	ctx := context.Background()
	relwatchEngine, _, err := flags.newEngine(ctx, logger, nil)
	if err != nil {
		return err
	}
	relwatchEngine.RefreshAll(ctx)
	return printReleaseTable(ctx, os.Stdout, relwatchEngine)
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Prints the latest release of every product of the engine.
// Products without a release are printed with an error instead of failing the whole table.
func printReleaseTable(ctx context.Context, out io.Writer, relwatchEngine common.IEngine) error {
	releaseTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PRODUCT", "VERSION", "DATE", "LINK")

	for _, product := range relwatchEngine.Products() {
		release, err := relwatchEngine.Latest(ctx, product.Product)
		if err != nil {
			releaseTable.Row(product.Product, "-", "-", fmt.Sprintf("error: %s", common.CategoryOf(err)))
			continue
		}
		date := "-"
		if release.HasTimestamp() {
			date = release.Timestamp.Format(time.DateOnly)
		}
		link, err := relwatchEngine.Link(ctx, product.Product, release.Version)
		if err != nil {
			return err
		}
		releaseTable.Row(product.Product, release.Version, date, link)
	}

	_, err := fmt.Fprintln(out, releaseTable.Render())
	return err
}
