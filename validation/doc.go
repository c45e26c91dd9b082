// Package validation checks carbon's run configuration.
//
// Struct tags cover the unconditional rules; the programmatic Validator
// covers rules that depend on other fields, such as transfer credentials
// being required only when no local output file is configured. Both report
// a single CONFIG_INVALID error listing every failing field.
//
//	err := validation.Validate(cfg)
//
//	v := validation.New()
//	v.Required("transfer.host", cfg.Transfer.Host)
//	err := v.Validate()
package validation
