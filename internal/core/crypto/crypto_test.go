package crypto

import (
	"errors"
	"testing"
)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin     string
		wantErr bool
	}{
		{"1234", false},
		{"0000", false},
		{"123", true},
		{"12345", true},
		{"12a4", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			err := ValidatePIN(tt.pin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePIN(%q) = %v; wantErr %v", tt.pin, err, tt.wantErr)
			}
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	enc, err := Encrypt("sk-test-123", "1234")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	got, err := Decrypt(enc, "1234")
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if got != "sk-test-123" {
		t.Errorf("Decrypt() = %q; want %q", got, "sk-test-123")
	}

	other, err := Encrypt("sk-test-123", "1234")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if other == enc {
		t.Error("two encryptions of the same plaintext should differ")
	}
}

func TestDecryptErrors(t *testing.T) {
	enc, err := Encrypt("secret", "1234")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tests := []struct {
		name    string
		data    string
		pin     string
		wantErr error
	}{
		{name: "wrong pin", data: enc, pin: "9999", wantErr: ErrDecryptionFailed},
		{name: "bad pin format", data: enc, pin: "12", wantErr: ErrInvalidPIN},
		{name: "not base64", data: "!!!", pin: "1234", wantErr: ErrInvalidData},
		{name: "too short", data: "AAAA", pin: "1234", wantErr: ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.data, tt.pin)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decrypt() error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-abcdefghijkl", "sk-********ijkl"},
	}

	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
