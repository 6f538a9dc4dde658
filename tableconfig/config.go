// Package tableconfig reads the configuration of a table,
// its columns and plugins from YAML.
//
// Example:
//
//	className: items
//	columns:
//	  - field: name
//	    name: Name
//	    sortable: true
//	  - field: price
//	    name: Price
//	    aggregate: sum
//	    format: code
//	plugins: [pager, sortable, aggregator]
//	pager:
//	  pageSize: 50
package tableconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-logr/logr"
	fs "github.com/ungerik/go-fs"
	"gopkg.in/yaml.v3"

	tabler "github.com/domonda/go-tabler"
	"github.com/domonda/go-tabler/aggregator"
	"github.com/domonda/go-tabler/columngrouper"
	"github.com/domonda/go-tabler/csvsource"
	"github.com/domonda/go-tabler/infinitable"
	"github.com/domonda/go-tabler/pager"
	"github.com/domonda/go-tabler/removecolumns"
	"github.com/domonda/go-tabler/rowfilter"
	"github.com/domonda/go-tabler/sortable"
	"github.com/domonda/go-tabler/togglecolumns"
)

// Config of a table.
type Config struct {
	ClassName           string `yaml:"className"`
	CellClassName       string `yaml:"cellClassName"`
	HeaderCellClassName string `yaml:"headerCellClassName"`
	HeadRowClassName    string `yaml:"headRowClassName"`
	BodyRowClassName    string `yaml:"bodyRowClassName"`
	FootRowClassName    string `yaml:"footRowClassName"`

	// Columns are derived from the data if empty.
	Columns []Column `yaml:"columns"`

	// Plugins are attached in the listed order.
	Plugins []string `yaml:"plugins"`

	Pager         pager.Options           `yaml:"pager"`
	PageSize      pager.PageSizeOptions   `yaml:"pageSize"`
	JumpToPage    pager.JumpToPageOptions `yaml:"jumpToPage"`
	Sortable      sortable.Options        `yaml:"sortable"`
	ColumnGrouper columngrouper.Options   `yaml:"columnGrouper"`
	RemoveColumns removecolumns.Options   `yaml:"removeColumns"`
	ToggleColumns togglecolumns.Options   `yaml:"toggleColumns"`
	RowFilter     rowfilter.Options       `yaml:"rowFilter"`
	CSV           csvsource.Format        `yaml:"csv"`
}

// Parse decodes YAML data into a validated Config.
// Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	config := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode table config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReadFile reads and parses a YAML config file.
func ReadFile(ctx context.Context, file fs.FileReader) (*Config, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read table config %s: %w", file.Name(), err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("table config %s: %w", file.Name(), err)
	}
	return config, nil
}

// Validate checks the columns, the plugin names
// and the options of the listed plugins.
func (c *Config) Validate() error {
	for i := range c.Columns {
		if err := c.Columns[i].Validate(); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	if _, err := tabler.NewColumns(c.ColumnSpecs()...); err != nil {
		return err
	}
	for i, name := range c.Plugins {
		if !slices.Contains(PluginNames, name) {
			return fmt.Errorf("unknown plugin %q: %w", name, tabler.ErrInvalidOptions)
		}
		if slices.Index(c.Plugins, name) != i {
			return fmt.Errorf("plugin %q listed twice: %w", name, tabler.ErrDuplicatePlugin)
		}
	}
	var err error
	if c.HasPlugin(pager.PluginName) {
		err = errors.Join(err, c.Pager.Validate())
	}
	if c.HasPlugin(pager.PageSizePluginName) {
		err = errors.Join(err, c.PageSize.Validate())
	}
	if c.HasPlugin(rowfilter.PluginName) && c.RowFilter.Expression != "" {
		env, envErr := rowfilter.NewEnv()
		if envErr == nil {
			_, envErr = rowfilter.Compile(env, c.RowFilter.Expression)
		}
		err = errors.Join(err, envErr)
	}
	return errors.Join(err, c.CSV.Validate())
}

// PluginNames lists the plugins that can be configured.
var PluginNames = []string{
	pager.PluginName,
	pager.PageSizePluginName,
	pager.JumpToPagePluginName,
	sortable.PluginName,
	columngrouper.PluginName,
	removecolumns.PluginName,
	togglecolumns.PluginName,
	aggregator.PluginName,
	infinitable.PluginName,
	rowfilter.PluginName,
}

func (c *Config) HasPlugin(name string) bool {
	return slices.Contains(c.Plugins, name)
}

// ColumnSpecs returns new column specs for the configured columns
// or nil if no columns are configured.
func (c *Config) ColumnSpecs() []*tabler.ColumnSpec {
	if len(c.Columns) == 0 {
		return nil
	}
	specs := make([]*tabler.ColumnSpec, len(c.Columns))
	for i := range c.Columns {
		specs[i] = c.Columns[i].ColumnSpec()
	}
	return specs
}

// NewPlugins returns new instances of the configured plugins.
func (c *Config) NewPlugins() []tabler.Plugin {
	plugins := make([]tabler.Plugin, 0, len(c.Plugins))
	for _, name := range c.Plugins {
		switch name {
		case pager.PluginName:
			plugins = append(plugins, pager.New(c.Pager))
		case pager.PageSizePluginName:
			plugins = append(plugins, pager.NewPageSize(c.PageSize))
		case pager.JumpToPagePluginName:
			plugins = append(plugins, pager.NewJumpToPage(c.JumpToPage))
		case sortable.PluginName:
			plugins = append(plugins, sortable.New(c.Sortable))
		case columngrouper.PluginName:
			plugins = append(plugins, columngrouper.New(c.ColumnGrouper))
		case removecolumns.PluginName:
			plugins = append(plugins, removecolumns.New(c.RemoveColumns))
		case togglecolumns.PluginName:
			plugins = append(plugins, togglecolumns.New(c.ToggleColumns))
		case aggregator.PluginName:
			plugins = append(plugins, aggregator.New())
		case infinitable.PluginName:
			plugins = append(plugins, infinitable.New())
		case rowfilter.PluginName:
			plugins = append(plugins, rowfilter.New(c.RowFilter))
		}
	}
	return plugins
}

// Options returns table options with new plugin instances.
func (c *Config) Options(fetch tabler.Fetcher, logger logr.Logger) *tabler.Options {
	return &tabler.Options{
		ClassName:           c.ClassName,
		CellClassName:       c.CellClassName,
		HeaderCellClassName: c.HeaderCellClassName,
		HeadRowClassName:    c.HeadRowClassName,
		BodyRowClassName:    c.BodyRowClassName,
		FootRowClassName:    c.FootRowClassName,
		Fetch:               fetch,
		Plugins:             c.NewPlugins(),
		Logger:              logger,
	}
}

// NewTable returns a table with the configured columns and plugins.
// fetch may be nil to render loaded rows.
func (c *Config) NewTable(fetch tabler.Fetcher, logger logr.Logger) (*tabler.Table, error) {
	return tabler.New(c.ColumnSpecs(), c.Options(fetch, logger))
}
