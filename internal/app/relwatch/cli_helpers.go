package relwatch

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/config"
	"github.com/roemer/relwatch/pkg/engine"
	"github.com/roemer/relwatch/pkg/logging"
	"github.com/samber/lo"
)

// The version of relwatch, overwritten at build time.
var Version = "0.0.0-dev"

type stringSliceFlag []string

func (i *stringSliceFlag) String() string {
	return strings.Join(*i, "; ")
}

func (i *stringSliceFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*i = append(*i, part)
		}
	}
	return nil
}

// Flags that are shared between the commands which work with products.
type commonFlags struct {
	verbose    bool
	configFile string
	logFormat  string
	products   stringSliceFlag
}

func (f *commonFlags) register(flagSet *flag.FlagSet) {
	flagSet.BoolVar(&f.verbose, "verbose", false, "The flag to set in order to get verbose output")
	flagSet.BoolVar(&f.verbose, "v", false, "Alias for -verbose")
	flagSet.StringVar(&f.configFile, "config", "", "The config to load (path, preset:<name> or url). Defaults to a local relwatch config or the default preset")
	flagSet.StringVar(&f.logFormat, "log-format", logging.FORMAT_TEXT, "The format of the log output (text or console)")
	flagSet.Var(&f.products, "products", "Glob patterns of products to process, can be repeated or comma separated")
}

// Creates the logger according to the flags.
func (f *commonFlags) newLogger(out io.Writer) *slog.Logger {
	desiredLogLevel := lo.Ternary(f.verbose, slog.LevelDebug, slog.LevelInfo)
	logger := slog.New(logging.NewHandler(f.logFormat, out, desiredLogLevel))
	logger.Debug(fmt.Sprintf("Initialized logger with level: %s", desiredLogLevel))
	return logger
}

// Loads the config and creates the engine for the selected products.
func (f *commonFlags) newEngine(ctx context.Context, logger *slog.Logger, reporter common.IReporter) (*engine.Engine, *config.RelwatchConfig, error) {
	relwatchConfig, err := config.Load(ctx, f.configFile, nil)
	if err != nil {
		return nil, nil, err
	}
	relwatchEngine, err := newEngineFromConfig(relwatchConfig, f.products, logger, reporter)
	if err != nil {
		return nil, nil, err
	}
	return relwatchEngine, relwatchConfig, nil
}

func newEngineFromConfig(relwatchConfig *config.RelwatchConfig, patterns []string, logger *slog.Logger, reporter common.IReporter) (*engine.Engine, error) {
	products, err := relwatchConfig.FilterProducts(patterns...)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products to process")
	}
	productIds := lo.Map(products, func(p *common.ProductConfig, _ int) string { return p.Product })
	logger.Info(fmt.Sprintf("Processing %d product(s): %s", len(products), strings.Join(productIds, ", ")))

	httpUtil := relwatchConfig.ToHttpUtil()
	httpUtil.UserAgent = fmt.Sprintf("%s/%s", common.DefaultUserAgent, Version)
	return engine.NewEngine(products, relwatchConfig.ToEngineSettings(logger, httpUtil, reporter))
}

// Prints the help for a command
func printCmdUsage(flagSet *flag.FlagSet, commandName, nonFlagArgs string) {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintf(os.Stderr, "  relwatch %s [flags]", commandName)
	if nonFlagArgs != "" {
		fmt.Fprint(os.Stderr, " "+nonFlagArgs)
	}
	fmt.Fprintln(os.Stderr, "")

	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	flagSet.PrintDefaults()
}

// Prints the general help
func HelpCmd(args []string) error {
	flag.Usage()
	return nil
}

// Prints the version
func VersionCmd(args []string) error {
	fmt.Fprintf(os.Stdout, "relwatch v%s\n", Version)
	return nil
}
