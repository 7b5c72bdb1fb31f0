package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatalf("wrong password accepted")
	}
	if VerifyPassword("not-a-bcrypt-hash", "s3cret-pass") {
		t.Fatalf("garbage hash accepted")
	}
}
