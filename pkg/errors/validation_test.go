package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "linux", false},
		{"valid with dash", "aarch64-linux-gnu-binutils", false},
		{"valid with underscore", "python_foo", false},
		{"valid with dot", "qt5.15", false},
		{"valid with plus", "gtk+", false},
		{"valid with at", "lib32-foo@git", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"leading dash", "-linux", true},
		{"leading dot", ".linux", true},
		{"slash", "core/linux", true},
		{"path traversal", "../etc", true},
		{"null byte", "foo\x00bar", true},
		{"space", "foo bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("ValidatePackageName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "linux", false},
		{"with spaces", "linux headers", false},
		{"empty", "", true},
		{"whitespace", "   \t", true},
		{"control char", "lin\x01ux", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeNoParams) {
				t.Errorf("ValidateQuery(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeNoParams)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://archlinux.org/packages/", false},
		{"http with query", "http://localhost:8080/rpc/?v=5", false},

		{"empty", "", true},
		{"no scheme", "archlinux.org/packages/", true},
		{"ftp scheme", "ftp://archlinux.org/", true},
		{"no host", "https:///packages", true},
		{"malformed", "https://[::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ValidateBaseURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBaseURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeParseURL) {
					t.Errorf("ValidateBaseURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeParseURL)
				}
				return
			}
			if u == nil {
				t.Errorf("ValidateBaseURL(%q) returned nil URL", tt.input)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeParseURL,
		ErrCodeFetch,
		ErrCodeResponse,
		ErrCodeNoResults,
		ErrCodeNoParams,
		ErrCodeInvalidPackage,
		ErrCodeInvalidArgument,
		ErrCodeInvalidConfig,
		ErrCodeRateLimited,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
