package auth

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("CheckPasswordHash() should accept the original password")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("CheckPasswordHash() should reject a different password")
	}
}
