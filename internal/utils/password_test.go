package utils

import "testing"

func TestPassword_HashAndVerify(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "admin123") {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword(hash, "admin124") {
		t.Fatal("wrong password must not verify")
	}
}

func TestVerifyPassword_BadHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "admin123") {
		t.Fatal("malformed hash must not verify")
	}
}
