package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dhcpdash/pkg/dhcpopt"
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
	"github.com/matzehuels/dhcpdash/pkg/jsontree"
)

// optionsCommand groups the option-set commands.
func (c *CLI) optionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Serialize and decode DHCP option sets",
	}
	cmd.AddCommand(c.serializeCommand())
	cmd.AddCommand(c.decodeCommand())
	return cmd
}

// =============================================================================
// Serialize
// =============================================================================

type serializeOpts struct {
	universe string
	format   string
	output   string
}

// serializeCommand turns an option document into wire options.
func (c *CLI) serializeCommand() *cobra.Command {
	var opts serializeOpts

	cmd := &cobra.Command{
		Use:   "serialize [file]",
		Short: "Serialize an option document into wire options",
		Long: `Serialize an option document into the JSON option list a DHCP server
expects. Documents are written in TOML or JSON:

  universe = 6

  [[option]]
  code = 1024
  always_send = true

    [[option.field]]
    type = "ipv6-prefix"
    values = ["3000::", 64]`,
		Example: `  dhcpdash options serialize options.toml
  dhcpdash options serialize options.json --universe 6 -o wire.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runSerialize(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.universe, "universe", "", "DHCP universe: 4 or 6 (default: from the document, then the settings)")
	cmd.Flags().StringVar(&opts.format, "format", "", "document format: toml or json (default: from file extension)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write wire options to a file instead of stdout")

	return cmd
}

func (c *CLI) runSerialize(cmd *cobra.Command, path string, opts serializeOpts) error {
	logger := loggerFromContext(cmd.Context())
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}
	format := dhcpopt.FormatFromPath(path)
	if path == "-" {
		format = dhcpopt.FormatJSON
	}
	if opts.format != "" {
		if format, err = dhcpopt.ParseFormat(opts.format); err != nil {
			return err
		}
	}
	doc, err := dhcpopt.ParseDocument(data, format)
	if err != nil {
		return err
	}

	var universe dhcpopt.Universe
	if opts.universe != "" {
		if universe, err = dhcpopt.ParseUniverse(opts.universe); err != nil {
			return err
		}
	} else if doc.Universe == 0 {
		universe = cfg.Universe
	}

	prog := newProgress(logger)
	wire, err := doc.Serialize(universe)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Serialized %d options", len(wire)))

	out, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode wire options")
	}
	out = append(out, '\n')

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	printDone(cmd.ErrOrStderr(), "Serialized %d options", len(wire))
	printWritten(cmd.ErrOrStderr(), opts.output)
	return nil
}

// =============================================================================
// Decode
// =============================================================================

type decodeOpts struct {
	universe string
	plain    bool
}

// decodeCommand turns wire options back into an option form.
func (c *CLI) decodeCommand() *cobra.Command {
	var opts decodeOpts

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode wire options into an option form and check its values",
		Long: `Decode a JSON list of wire options, as stored with a host or subnet,
into the option form an editor would show. The form is printed as a tree,
followed by the standard names of the option codes and every value that
fails validation. The command fails when any value is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runDecode(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.universe, "universe", "", "DHCP universe used to name option codes: 4 or 6 (default: from the settings)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable colors")

	return cmd
}

func (c *CLI) runDecode(cmd *cobra.Command, path string, opts decodeOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	universe := cfg.Universe
	if opts.universe != "" {
		if universe, err = dhcpopt.ParseUniverse(opts.universe); err != nil {
			return err
		}
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}
	var wire []dhcpopt.SerializedOption
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode wire options")
	}
	options, err := dhcpopt.FormFromOptions(wire)
	if err != nil {
		return err
	}

	styles := jsontree.DefaultStyles()
	if opts.plain {
		styles = jsontree.PlainStyles()
	}
	tree := jsontree.New(form.RawValue(options), jsontree.Options{
		Key:        "options",
		AutoExpand: jsontree.AutoExpandAll,
	})
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, tree.Render(styles))

	for _, o := range wire {
		if name := dhcpopt.OptionName(universe, o.Code); name != "" {
			printOptionName(w, universe, o.Code, name)
		}
	}

	problems := form.Validate(options)
	for _, p := range problems {
		printProblem(w, p)
	}
	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "option form has %d invalid values", len(problems))
	}
	printDone(w, "Decoded %d options", options.Len())
	return nil
}
