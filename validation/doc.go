// Package validation checks configuration and request values.
//
// It supports struct tag validation backed by go-playground/validator and
// programmatic validation with error collection. Both report failures as
// *errors.AppError with a "fields" detail listing every offending field.
//
// # Struct Tag Validation
//
//	type TranslationConfig struct {
//	    Type string `json:"type" validate:"required,oneof=one_way two_way"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    ExactlyOne("source", "file_path or file_data or file_url", hasPath, hasData, hasURL).
//	    ValidateAs(errors.ErrCodeConfiguration)
package validation
