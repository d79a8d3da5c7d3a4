package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dhcpdash/internal/config"
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/jsontree"
)

// treeOpts holds the tree command flags.
type treeOpts struct {
	format      string
	key         string
	autoExpand  string
	forceOpen   bool
	secretKeys  []string
	showSecrets bool
	pageSize    int
	plain       bool
	interactive bool
}

// treeCommand creates the tree command for rendering configuration values.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Render a JSON or TOML value as a collapsible tree",
		Long: `Render a JSON or TOML value as a collapsible tree.

Object keys are sorted, wide arrays and objects are paged and values under
secret keys are redacted. With --interactive the tree can be browsed,
toggled and paged in the terminal.`,
		Example: `  # Print a Kea configuration with every node expanded
  dhcpdash tree kea-dhcp4.json --auto-expand all

  # Browse it interactively
  dhcpdash tree kea-dhcp4.json -i

  # Read from stdin
  curl -s http://kea:8000/ -d '{"command":"config-get"}' | dhcpdash tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			treeOptions, err := opts.apply(cfg, cmd)
			if err != nil {
				return err
			}
			return c.runTree(cmd, path, opts, treeOptions)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "input format: json or toml (default: from file extension, json for stdin)")
	cmd.Flags().StringVar(&opts.key, "key", "", "name of the top node")
	cmd.Flags().StringVar(&opts.autoExpand, "auto-expand", "", "open nodes automatically: none, all or a child count")
	cmd.Flags().BoolVar(&opts.forceOpen, "force-open", false, "open the top node regardless of --auto-expand")
	cmd.Flags().StringSliceVar(&opts.secretKeys, "secret-keys", nil, "keys whose values are redacted")
	cmd.Flags().BoolVar(&opts.showSecrets, "show-secrets", false, "allow revealing redacted values")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "children shown per page")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable colors")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the tree interactively")

	return cmd
}

// apply layers the command-line flags over the settings file.
func (o treeOpts) apply(cfg config.Config, cmd *cobra.Command) (jsontree.Options, error) {
	out := cfg.TreeOptions()
	out.Key = o.key
	out.ForceOpen = o.forceOpen
	flags := cmd.Flags()
	if flags.Changed("auto-expand") {
		ae, err := jsontree.ParseAutoExpand(o.autoExpand)
		if err != nil {
			return out, err
		}
		out.AutoExpand = ae
	}
	if flags.Changed("secret-keys") {
		out.SecretKeys = o.secretKeys
	}
	if flags.Changed("show-secrets") {
		out.CanShowSecrets = o.showSecrets
	}
	if flags.Changed("page-size") {
		if o.pageSize <= 0 {
			return out, errors.New(errors.ErrCodeInvalidInput, "--page-size must be positive, got %d", o.pageSize)
		}
		out.PageSize = o.pageSize
	}
	return out, nil
}

func (c *CLI) runTree(cmd *cobra.Command, path string, opts treeOpts, treeOptions jsontree.Options) error {
	logger := loggerFromContext(cmd.Context())

	data, err := readInput(path)
	if err != nil {
		return err
	}
	format := opts.format
	if format == "" {
		format = valueFormat(path)
	}
	value, err := decodeValue(data, format)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	tree := jsontree.New(value, treeOptions)
	prog.done(fmt.Sprintf("Built %d nodes", tree.Size()))

	if opts.interactive {
		title := path
		if path == "-" {
			title = "stdin"
		}
		return runTreeTUI(title, tree)
	}

	styles := jsontree.DefaultStyles()
	if opts.plain {
		styles = jsontree.PlainStyles()
	}
	fmt.Fprintln(cmd.OutOrStdout(), tree.Render(styles))
	return nil
}

// valueFormat guesses the input format of path.
func valueFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "json"
}

// decodeValue parses data as JSON, keeping numbers exact, or as TOML.
func decodeValue(data []byte, format string) (any, error) {
	switch strings.ToLower(format) {
	case "json":
		var v any
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON value")
		}
		return v, nil
	case "toml":
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode TOML value")
		}
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported value format %q: use json or toml", format)
}
