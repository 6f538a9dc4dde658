// Command tabler renders CSV files as HTML tables.
//
//	tabler render items.csv --config table.yaml --sort price:desc --page-size 50
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	tabler "github.com/domonda/go-tabler"
	"github.com/domonda/go-tabler/csvsource"
	"github.com/domonda/go-tabler/pager"
	"github.com/domonda/go-tabler/rowfilter"
	"github.com/domonda/go-tabler/sortable"
	"github.com/domonda/go-tabler/tableconfig"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type renderFlags struct {
	config    string
	page      int
	pageSize  int
	sort      string
	hide      []string
	filter    string
	className string
	encoding  string
	separator string
	verbose   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "tabler",
		Short:        "Render tables as HTML",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newRenderCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render CSV_FILE",
		Short: "Render a CSV file as HTML table to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd.ErrOrStderr(), flags.verbose)
			return render(cmd.Context(), log, cmd.OutOrStdout(), fs.File(args[0]), &flags)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "YAML table configuration file")
	f.IntVar(&flags.page, "page", 0, "zero based page index, enables the pager")
	f.IntVar(&flags.pageSize, "page-size", 0, "rows per page, enables the pager")
	f.StringVar(&flags.sort, "sort", "", "sort by FIELD[:asc|desc], enables sorting")
	f.StringSliceVar(&flags.hide, "hide", nil, "IDs of columns to disable")
	f.StringVar(&flags.filter, "filter", "", "CEL row filter expression like 'row.price > \"2\"'")
	f.StringVar(&flags.className, "class", "", "class name of the table element")
	f.StringVar(&flags.encoding, "encoding", "", "character encoding of the CSV file, detected if empty")
	f.StringVar(&flags.separator, "separator", "", "CSV field separator, detected if empty")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug messages to stderr")
	return cmd
}

func newLogger(w io.Writer, verbose bool) logr.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(level),
	)
	return zapr.NewLogger(zap.New(core))
}

func render(ctx context.Context, log logr.Logger, w io.Writer, file fs.FileReader, flags *renderFlags) (err error) {
	config := new(tableconfig.Config)
	if flags.config != "" {
		config, err = tableconfig.ReadFile(ctx, fs.File(flags.config))
		if err != nil {
			return err
		}
	}
	if err := applyFlags(config, flags); err != nil {
		return err
	}

	rows, fields, format, err := csvsource.ReadFile(ctx, file, config.CSV)
	if err != nil {
		return err
	}
	log.V(1).Info("read csv", "file", file.Name(), "rows", len(rows), "encoding", format.Encoding, "separator", format.Separator)

	if len(config.Columns) == 0 {
		for _, field := range fields {
			config.Columns = append(config.Columns, tableconfig.Column{Field: field, Name: field, Sortable: true})
		}
	}
	for i := range config.Columns {
		col := &config.Columns[i]
		if slices.Contains(flags.hide, col.ID) || slices.Contains(flags.hide, col.Field) {
			col.Disabled = true
		}
	}
	if err := config.Validate(); err != nil {
		return err
	}

	table, err := config.NewTable(nil, log)
	if err != nil {
		return err
	}
	defer func() {
		if e := table.Destroy(); e != nil {
			log.Error(e, "destroy table")
			err = errors.Join(err, e)
		}
	}()

	table.Load(rows)
	if err := table.Render(ctx); err != nil {
		return err
	}
	if p := pager.Of(table); p != nil {
		log.V(1).Info("rendered page", "page", p.CurrentPage(), "pages", p.TotalPages())
	}
	if err := table.WriteHTML(ctx, w); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// applyFlags overrides config with the set flags
// and adds the plugins the flags depend on.
func applyFlags(config *tableconfig.Config, flags *renderFlags) error {
	if flags.className != "" {
		config.ClassName = flags.className
	}
	if flags.encoding != "" {
		config.CSV.Encoding = flags.encoding
	}
	if flags.separator != "" {
		config.CSV.Separator = flags.separator
	}
	if flags.page != 0 || flags.pageSize != 0 {
		addPlugin(config, pager.PluginName)
		config.Pager.CurrentPage = flags.page
		if flags.pageSize != 0 {
			config.Pager.PageSize = flags.pageSize
		}
	}
	if flags.sort != "" {
		field, dir, _ := strings.Cut(flags.sort, ":")
		if field == "" {
			return fmt.Errorf("missing field in --sort %q: %w", flags.sort, tabler.ErrInvalidOptions)
		}
		addPlugin(config, sortable.PluginName)
		config.Sortable.Field = field
		config.Sortable.Direction = tabler.SortAscending
		if dir != "" {
			config.Sortable.Direction = tabler.ParseSortDirection(dir)
		}
		for i := range config.Columns {
			if config.Columns[i].Field == field {
				config.Columns[i].Sortable = true
			}
		}
	}
	if flags.filter != "" {
		addPlugin(config, rowfilter.PluginName)
		config.RowFilter.Expression = flags.filter
	}
	return nil
}

func addPlugin(config *tableconfig.Config, name string) {
	if !config.HasPlugin(name) {
		config.Plugins = append(config.Plugins, name)
	}
}
