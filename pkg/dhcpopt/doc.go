// Package dhcpopt models DHCP option sets as editable forms and converts
// them to and from the Kea option wire format.
//
// # Form Layout
//
// An option set is a [form.Array] of option groups. Each option group holds
// the controls alwaysSend, optionCode, optionFields (an array of field
// groups) and suboptions (an array of option groups). A field group carries
// a [*Field] as its metadata and one control per editable value:
//
//	ipv6-prefix   prefix, prefixLength
//	psid          psid, psidLength
//	anything else control
//
// [NewOptionGroup] and [NewFieldGroup] build these groups. [FormFromOptions]
// rebuilds a form from serialized options and [Document] from a TOML or JSON
// file.
//
// # Serialization
//
// [OptionSetForm.Process] walks the form and produces [SerializedOption]
// values. Suboptions may be nested one level below a top-level option; an
// option with suboptions encapsulates them in the space "option-<code>".
//
//	f := dhcpopt.NewOptionSetForm(options)
//	if err := f.Process(dhcpopt.UniverseIPv4); err != nil {
//	    return err
//	}
//	wire, _ := f.SerializedOptions()
//
// # Per-Server Editing
//
// [Editor] keeps one form per server of a record. Splitting and snapshots
// are built on [form.Clone], so every server form and every snapshot is
// independent of the others.
package dhcpopt
