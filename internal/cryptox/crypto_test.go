package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_Deterministic(t *testing.T) {
	password := []byte("secret123")
	salt := []byte("0123456789abcdef")

	d1, s1, err := HashPassword(password, salt)
	require.NoError(t, err)
	d2, s2, err := HashPassword(password, salt)
	require.NoError(t, err)

	if !bytes.Equal(d1, d2) {
		t.Errorf("expected same digest for same inputs, got different")
	}
	if !bytes.Equal(s1, salt) || !bytes.Equal(s2, salt) {
		t.Errorf("provided salt must be returned unchanged")
	}

	// pbkdf2-sha512, 1000 iterations, 64 bytes
	expectedHex := "bf47c3fa3893bd0f8c4231506a4fff4d568a24b6ca8e10f6cd4035b0e1a0b535" +
		"c7922fd52523fc57f3141a845c73480081198d5737603b5229913b722f2e646c"
	if hex.EncodeToString(d1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(d1))
	}
}

func TestHashPassword_GeneratesSalt(t *testing.T) {
	d1, s1, err := HashPassword([]byte("pw"), nil)
	require.NoError(t, err)
	d2, s2, err := HashPassword([]byte("pw"), nil)
	require.NoError(t, err)

	if len(s1) != SaltSize || len(s2) != SaltSize {
		t.Fatalf("unexpected salt sizes: %d, %d", len(s1), len(s2))
	}
	if len(d1) != DigestSize {
		t.Fatalf("unexpected digest size: %d", len(d1))
	}
	if bytes.Equal(s1, s2) {
		t.Errorf("two generated salts are identical")
	}
	if bytes.Equal(d1, d2) {
		t.Errorf("different salts must give different digests")
	}
}

func TestVerifyPassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		candidate string
		want      bool
	}{
		{name: "same password", password: "secret123", candidate: "secret123", want: true},
		{name: "wrong password", password: "secret123", candidate: "wrongpass", want: false},
		{name: "empty candidate", password: "secret123", candidate: "", want: false},
		{name: "case differs", password: "Secret", candidate: "secret", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, salt, err := HashPassword([]byte(tt.password), nil)
			require.NoError(t, err)
			if got := VerifyPassword([]byte(tt.candidate), digest, salt); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyPassword_WrongSalt(t *testing.T) {
	digest, _, err := HashPassword([]byte("pw"), []byte("salt-1"))
	require.NoError(t, err)
	if VerifyPassword([]byte("pw"), digest, []byte("salt-2")) {
		t.Errorf("verification must fail with a different salt")
	}
}

func TestHasher_IterationsFloor(t *testing.T) {
	salt := []byte("fixed-salt")
	low, _, _ := Hasher{Iterations: 10}.HashPassword([]byte("pw"), salt)
	def, _, _ := Hasher{}.HashPassword([]byte("pw"), salt)
	if !bytes.Equal(low, def) {
		t.Errorf("iteration counts below the default must be raised to the default")
	}

	more, _, _ := Hasher{Iterations: 2000}.HashPassword([]byte("pw"), salt)
	if bytes.Equal(more, def) {
		t.Errorf("a higher iteration count must change the digest")
	}
}

func TestVerifyPassword_MalformedStoredValues(t *testing.T) {
	digest, salt, err := HashPassword([]byte("pw"), nil)
	require.NoError(t, err)

	if VerifyPassword([]byte("pw"), digest[:10], salt) {
		t.Errorf("truncated digest must not verify")
	}
	if VerifyPassword([]byte("pw"), digest, nil) {
		t.Errorf("missing salt must not verify")
	}
}

func TestHasher_WorkFactor(t *testing.T) {
	require.Equal(t, DefaultIterations, Hasher{}.WorkFactor())
	require.Equal(t, DefaultIterations, Hasher{Iterations: 10}.WorkFactor())
	require.Equal(t, 4000, Hasher{Iterations: 4000}.WorkFactor())
}
