// Package validation provides configuration and input validation for typeioc.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Failures are reported as
// INVALID_CONFIG application errors listing every offending field.
//
// # Struct Tag Validation
//
//	type ContainerConfig struct {
//	    DefaultScope string `validate:"omitempty,oneof=local singleton"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.OneOf("default_scope", scope, []string{"local", "singleton"})
//	err := v.Validate()
package validation
