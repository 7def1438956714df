// Package validation validates configuration structs through their
// `validate` tags.
//
//	type Config struct {
//	    URI  string `mapstructure:"uri" validate:"required,uri"`
//	    Port int    `mapstructure:"port" validate:"min=0,max=65535"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
package validation
