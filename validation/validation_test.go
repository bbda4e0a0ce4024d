package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/gokit-soniox/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("api_key", "k").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("api_key", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("api_key", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorURL(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"https://api.soniox.com/v1", false},
		{"http://localhost:8080", false},
		{"ftp://example.com/a.mp3", true},
		{"api.soniox.com", true},
		{"://bad", true},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			if got := New().URL("base_url", tc.value).HasErrors(); got != tc.wantErr {
				t.Errorf("URL(%q) error = %v, want %v", tc.value, got, tc.wantErr)
			}
		})
	}
}

func TestValidatorPositive(t *testing.T) {
	if New().Positive("timeout", time.Second).HasErrors() {
		t.Error("expected no error for positive duration")
	}
	if !New().Positive("timeout", 0).HasErrors() {
		t.Error("expected error for zero duration")
	}
	if !New().Positive("timeout", -time.Second).HasErrors() {
		t.Error("expected error for negative duration")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"one_way", "two_way"}
	if New().OneOf("type", "two_way", allowed).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if New().OneOf("type", "", allowed).HasErrors() {
		t.Error("expected empty value to be skipped")
	}
	v := New().OneOf("type", "three_way", allowed)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "one_way, two_way") {
		t.Errorf("expected allowed values in message, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorExactlyOne(t *testing.T) {
	tests := []struct {
		name    string
		present []bool
		wantErr bool
	}{
		{"none", []bool{false, false, false}, true},
		{"one", []bool{false, true, false}, false},
		{"two", []bool{true, true, false}, true},
		{"all", []bool{true, true, true}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().ExactlyOne("source", "a, b or c", tc.present...)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("ExactlyOne error = %v, want %v", v.HasErrors(), tc.wantErr)
			}
		})
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(false, "base_url", "must not be empty at load time")
	if !v.HasErrors() {
		t.Fatal("expected error for failed custom condition")
	}
	if v.Errors()[0].Field != "base_url" {
		t.Errorf("expected field base_url, got %q", v.Errors()[0].Field)
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("expected nil AppError when there are no errors")
	}

	appErr := New().Required("a", "").Required("b", "").Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "a: is required; b: is required") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected two field errors in details, got %v", appErr.Details["fields"])
	}
}

func TestValidatorValidateAs(t *testing.T) {
	appErr := New().Required("api_key", "").ValidateAs(errors.ErrCodeConfiguration)
	if appErr == nil || appErr.Code != errors.ErrCodeConfiguration {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", appErr)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "x").URL("u", "https://a.b").Positive("d", time.Second)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}
}

type translation struct {
	Type           string `json:"type" validate:"required,oneof=one_way two_way"`
	TargetLanguage string `json:"target_language,omitempty" validate:"required_if=Type one_way"`
}

type request struct {
	Model       string       `json:"model" validate:"required"`
	WebhookURL  *string      `json:"webhook_url,omitempty" validate:"omitempty,url"`
	Translation *translation `json:"translation,omitempty" validate:"omitempty"`
}

type section struct {
	BaseURL string `mapstructure:"base_url" validate:"required"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(request{Model: "m", Translation: &translation{Type: "one_way", TargetLanguage: "de"}})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateNested(t *testing.T) {
	err := Validate(request{Model: "m", Translation: &translation{Type: "three_way"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "translation.type: must be one of: one_way two_way") {
		t.Errorf("expected nested json field path, got %q", err.Error())
	}
}

func TestStructValidateRequiredIf(t *testing.T) {
	err := Validate(request{Model: "m", Translation: &translation{Type: "one_way"}})
	if err == nil || !strings.Contains(err.Error(), "translation.target_language") {
		t.Errorf("expected target_language to be required for one_way, got %v", err)
	}
}

func TestStructValidateURL(t *testing.T) {
	bad := "not a url"
	err := Validate(request{Model: "m", WebhookURL: &bad})
	if err == nil || !strings.Contains(err.Error(), "webhook_url: must be a valid URL") {
		t.Errorf("expected webhook_url error, got %v", err)
	}
}

func TestStructValidateAs_MapstructureNames(t *testing.T) {
	err := ValidateAs(section{}, errors.ErrCodeConfiguration)
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "base_url: is required") {
		t.Errorf("expected mapstructure name in message, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Model":          "model",
		"TargetLanguage": "target_language",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}
