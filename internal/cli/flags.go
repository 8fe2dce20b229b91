package cli

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/eshaffer321/order-analytics/internal/domain/filter"
)

// GlobalFlags precede the subcommand.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// ParseGlobalFlags parses the global flags and returns the remaining
// arguments, starting with the subcommand.
func ParseGlobalFlags(args []string, stderr io.Writer) (GlobalFlags, []string, error) {
	var flags GlobalFlags
	fs := flag.NewFlagSet("analytics", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.ConfigPath, "config", "", "Configuration file path (default: config.yaml, then environment)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return flags, nil, err
	}
	return flags, fs.Args(), nil
}

// CriteriaFlags select the orders a command works on.
type CriteriaFlags struct {
	Period    string
	StartDate string
	EndDate   string
	Country   string
	Search    string
}

func (c *CriteriaFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Period, "period", "", "Period: month, last-month, year or all")
	fs.StringVar(&c.StartDate, "from", "", "First day to include (YYYY-MM-DD)")
	fs.StringVar(&c.EndDate, "to", "", "Last day to include (YYYY-MM-DD)")
	fs.StringVar(&c.Country, "country", "", "Only orders from this country")
	fs.StringVar(&c.Search, "search", "", "Search customer name, country, type, phone or email")
}

// ToCriteria validates the flags. Dates are calendar days in loc.
func (c CriteriaFlags) ToCriteria(loc *time.Location) (filter.Criteria, error) {
	var criteria filter.Criteria
	if c.Period != "" {
		period, err := filter.ParsePeriod(c.Period)
		if err != nil {
			return criteria, err
		}
		criteria.Period = period
	}

	start, err := filter.ParseDay(c.StartDate, loc)
	if err != nil {
		return criteria, fmt.Errorf("-from: %w", err)
	}
	end, err := filter.ParseDay(c.EndDate, loc)
	if err != nil {
		return criteria, fmt.Errorf("-to: %w", err)
	}
	criteria.DateStart = start
	criteria.DateEnd = end
	criteria.Country = c.Country
	criteria.Search = c.Search
	return criteria, nil
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port int
}

// ParseServeFlags parses the serve subcommand flags. A zero port keeps the
// configured one.
func ParseServeFlags(args []string, stderr io.Writer) (ServeFlags, error) {
	var flags ServeFlags
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	return flags, fs.Parse(args)
}

// SummaryFlags holds the flags of the summary command.
type SummaryFlags struct {
	Criteria CriteriaFlags
	Top      int
}

// ParseSummaryFlags parses the summary subcommand flags.
func ParseSummaryFlags(args []string, stderr io.Writer) (SummaryFlags, error) {
	var flags SummaryFlags
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags.Criteria.register(fs)
	fs.IntVar(&flags.Top, "top", 0, "Number of top products to list (default from config)")
	return flags, fs.Parse(args)
}

// ExportFlags holds the flags of the export command.
type ExportFlags struct {
	Criteria CriteriaFlags
	OutDir   string
}

// ParseExportFlags parses the export subcommand flags.
func ParseExportFlags(args []string, stderr io.Writer) (ExportFlags, error) {
	var flags ExportFlags
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags.Criteria.register(fs)
	fs.StringVar(&flags.OutDir, "out", ".", "Directory to write the workbook to")
	return flags, fs.Parse(args)
}
