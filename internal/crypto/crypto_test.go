package crypto

import (
	"encoding/hex"
	"strings"
	"testing"
)

func testKey(t *testing.T) string {
	t.Helper()
	// Fixed 32-byte key for deterministic tests.
	return hex.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestRoundtrip(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	original := `[{"id":"f1","text":"Quarterly goals","status":"green"}]`
	encrypted, err := c.Encrypt(original)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == original {
		t.Fatal("encrypted text should differ from plaintext")
	}

	decrypted, err := c.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != original {
		t.Fatalf("roundtrip mismatch: got %q, want %q", decrypted, original)
	}
}

func TestNilCipherPassthrough(t *testing.T) {
	var c *Cipher

	text := "left alone"
	encrypted, err := c.Encrypt(text)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted != text {
		t.Fatalf("nil cipher should pass through, got %q", encrypted)
	}

	decrypted, err := c.Decrypt(text)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != text {
		t.Fatalf("nil cipher should pass through, got %q", decrypted)
	}
}

func TestNewCipherEmptyKey(t *testing.T) {
	c, err := NewCipher("")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	if c != nil {
		t.Fatal("empty key should yield a nil cipher")
	}
}

func TestNewCipherBadKeys(t *testing.T) {
	if _, err := NewCipher("not-hex"); err == nil {
		t.Fatal("expected error for non-hex key")
	}
	if _, err := NewCipher(hex.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for wrong-length key")
	}
}

func TestDecryptGarbage(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	if _, err := c.Decrypt("not base64 !!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := c.Decrypt("YQ=="); err == nil || !strings.Contains(err.Error(), "too short") {
		t.Fatalf("expected too-short error, got %v", err)
	}
}

func TestTamperedCiphertext(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	encrypted, err := c.Encrypt("original note body")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tampered := []byte(encrypted)
	tampered[len(tampered)-5] ^= 'x'
	if _, err := c.Decrypt(string(tampered)); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}
}
