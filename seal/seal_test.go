package seal

import (
	"bytes"
	"errors"
	"testing"
)

var fast = Options{Iterations: 1000}

func TestSealOpen(t *testing.T) {
	data := []byte("%PDF-1.7 summary bytes")
	env, err := Seal(data, "correct horse", fast)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !IsSealed(env) {
		t.Fatalf("envelope lacks magic")
	}
	if want := len(Magic) + SaltSize + NonceSize + len(data) + 16; len(env) != want {
		t.Fatalf("envelope length %d, want %d", len(env), want)
	}
	if bytes.Contains(env, data) {
		t.Fatalf("plaintext visible in envelope")
	}
	got, err := Open(env, "correct horse", fast)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestSeal_FreshSaltEachTime(t *testing.T) {
	a, _ := Seal([]byte("x"), "pw", fast)
	b, _ := Seal([]byte("x"), "pw", fast)
	if bytes.Equal(a, b) {
		t.Fatalf("two seals of the same data should differ")
	}
}

func TestSeal_DeterministicRand(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, SaltSize+NonceSize)
	a, _ := Seal([]byte("x"), "pw", Options{Iterations: 1000, Rand: bytes.NewReader(seed)})
	b, _ := Seal([]byte("x"), "pw", Options{Iterations: 1000, Rand: bytes.NewReader(seed)})
	if !bytes.Equal(a, b) {
		t.Fatalf("same salt and nonce should give the same envelope")
	}
}

func TestOpen_Errors(t *testing.T) {
	env, err := Seal([]byte("secret"), "pw", fast)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	tampered := append([]byte(nil), env...)
	tampered[len(tampered)-1] ^= 0xFF

	tests := []struct {
		name       string
		envelope   []byte
		passphrase string
		opts       Options
		want       error
	}{
		{"wrong passphrase", env, "nope", fast, ErrDecrypt},
		{"wrong iterations", env, "pw", Options{Iterations: 999}, ErrDecrypt},
		{"tampered", tampered, "pw", fast, ErrDecrypt},
		{"not sealed", []byte("%PDF-1.7"), "pw", fast, ErrEnvelope},
		{"truncated", env[:len(Magic)+10], "pw", fast, ErrEnvelope},
		{"empty passphrase", env, "", fast, ErrEmptyPassphrase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(tt.envelope, tt.passphrase, tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("Open() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeal_EmptyPassphrase(t *testing.T) {
	if _, err := Seal([]byte("x"), "", fast); !errors.Is(err, ErrEmptyPassphrase) {
		t.Fatalf("expected ErrEmptyPassphrase, got %v", err)
	}
}
