package validation

import (
	"errors"
	"testing"

	"abchub/internal/errs"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "John",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "name with hyphen",
			input:   "Mary-Jane",
			wantErr: false,
		},
		{
			name:    "name with apostrophe",
			input:   "O'Brien",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}


func TestValidateGameID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "alphabet", wantErr: false},
		{name: "hyphenated", input: "rhyme-memory", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "uppercase", input: "Alphabet", wantErr: true},
		{name: "leading hyphen", input: "-maze", wantErr: true},
		{name: "spaces", input: "word guess", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGameID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGameID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInviteCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "AB12CD34", wantErr: false},
		{name: "typed lowercase with spaces", input: " ab12cd34 ", wantErr: false},
		{name: "too short", input: "AB12", wantErr: true},
		{name: "too long", input: "AB12CD345", wantErr: true},
		{name: "symbols", input: "AB12-D34", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInviteCode(NormalizeInviteCode(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInviteCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		wantErr bool
	}{
		{name: "nothing yet", correct: 0, total: 0, wantErr: false},
		{name: "partial", correct: 3, total: 4, wantErr: false},
		{name: "negative", correct: -1, total: 4, wantErr: true},
		{name: "more correct than total", correct: 5, total: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScore(tt.correct, tt.total)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScore(%d, %d) error = %v, wantErr %v", tt.correct, tt.total, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorsMatchInvalidInput(t *testing.T) {
	err := ValidateStoryTitle("   ")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("expected %v to match ErrInvalidInput", err)
	}
	if err := ValidateStoryTitle("The Brave Fox"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
