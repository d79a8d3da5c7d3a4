package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMissingControl, "%s option field must contain control", "uint8")

	if err.Code != ErrCodeMissingControl {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingControl)
	}

	if err.Message != "uint8 option field must contain control" {
		t.Errorf("Message = %v, want %v", err.Message, "uint8 option field must contain control")
	}

	expected := "MISSING_CONTROL: uint8 option field must contain control"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidInput, cause, "decode options.toml")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_INPUT: decode options.toml: unexpected EOF"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNestingTooDeep, "test"),
			code:     ErrCodeNestingTooDeep,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNestingTooDeep, "test"),
			code:     ErrCodeNotProcessed,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeMissingControl, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotProcessed, "x")); got != ErrCodeNotProcessed {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotProcessed)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeMissingOptionCode, "form group does not contain control with an option code")); got != "form group does not contain control with an option code" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeNestingTooDeep, true},
		{ErrCodeMissingOptionCode, true},
		{ErrCodeMissingControl, true},
		{ErrCodeInvalidInput, true},
		{ErrCodeNotProcessed, false},
		{ErrCodeUnexpectedControl, false},
		{ErrCodeInternal, false},
	}
	for _, tt := range tests {
		if got := IsValidation(New(tt.code, "x")); got != tt.want {
			t.Errorf("IsValidation(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
