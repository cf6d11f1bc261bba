package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidQuery, "missing parameter: %s", "teff")

	if err.Code != ErrCodeInvalidQuery {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidQuery)
	}

	if err.Message != "missing parameter: teff" {
		t.Errorf("Message = %v, want %v", err.Message, "missing parameter: teff")
	}

	expected := "INVALID_QUERY: missing parameter: teff"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
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
			err:      New(ErrCodeInvalidQuery, "test"),
			code:     ErrCodeInvalidQuery,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidQuery, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidQuery, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidQuery,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidQuery,
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
	if code := GetCode(New(ErrCodeDownload, "boom")); code != ErrCodeDownload {
		t.Errorf("GetCode() = %v, want %v", code, ErrCodeDownload)
	}

	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode() = %v, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeLookup, "dataset is empty")
	if msg := UserMessage(err); msg != "dataset is empty" {
		t.Errorf("UserMessage() = %v, want %v", msg, "dataset is empty")
	}

	plain := errors.New("plain error")
	if msg := UserMessage(plain); msg != "plain error" {
		t.Errorf("UserMessage() = %v, want %v", msg, "plain error")
	}
}

func TestValidateDataRoot(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid relative", ".limbdark", false},
		{"valid absolute", "/home/user/.limbdark", false},
		{"empty", "", true},
		{"null byte", "data\x00root", true},
		{"control character", "data\x1broot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDataRoot(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDataRoot(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http", "http://example.com/ldcoeffs.db", false},
		{"https", "https://example.com/ldcoeffs.db", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com/ldcoeffs.db", true},
		{"file", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
