// Package pkg provides the libraries behind the dhcpdash DHCP dashboard.
//
// # Overview
//
// dhcpdash edits DHCP options and shows DHCP server configuration. The pkg
// directory holds the parts that do not depend on a terminal or a server:
//
//  1. [form] - Editable form trees (groups, arrays, controls) and deep cloning
//  2. [dhcpopt] - DHCP option forms and their wire serialization
//  3. [jsontree] - Collapsible, paged tree views of JSON configuration
//  4. [errors] - Error codes shared by all packages
//  5. [observability] - Hooks for metrics on serialization and rendering
//
// # Data Flow
//
//	Option document (TOML/JSON) or wire options
//	         ↓
//	    [dhcpopt] builds a [form] tree per option set
//	         ↓
//	    [dhcpopt.OptionSetForm.Process] (universe 4 or 6)
//	         ↓
//	    wire options (JSON) for the DHCP server
//
//	Server configuration (JSON)
//	         ↓
//	    [jsontree.New]
//	         ↓
//	    text lines, the terminal viewer or the preview API
//
// # Quick Start
//
// Serialize an option set:
//
//	options := dhcpopt.NewOptionSet(
//	    dhcpopt.NewOptionGroup(6, false, []*form.Group{
//	        dhcpopt.NewFieldGroup(dhcpopt.IPv4AddressField, "192.0.2.1"),
//	    }, nil),
//	)
//	f := dhcpopt.NewOptionSetForm(options)
//	if err := f.Process(dhcpopt.UniverseIPv4); err != nil {
//	    return err
//	}
//	wire, _ := f.SerializedOptions()
//
// Render a configuration value:
//
//	t := jsontree.New(config, jsontree.Options{AutoExpand: jsontree.AutoExpandAll})
//	fmt.Println(t.Render(jsontree.DefaultStyles()))
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test -run Example ./...  # Examples only
//
// [form]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/form
// [dhcpopt]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/dhcpopt
// [jsontree]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/jsontree
// [errors]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/observability
// [dhcpopt.OptionSetForm.Process]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/dhcpopt#OptionSetForm.Process
// [jsontree.New]: https://pkg.go.dev/github.com/matzehuels/dhcpdash/pkg/jsontree#New
package pkg
