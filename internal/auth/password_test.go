package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost) // cheap cost keeps the suite fast

	digest, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !h.Verify("s3cret", digest) {
		t.Fatal("correct password did not verify")
	}
	if h.Verify("s3cretx", digest) {
		t.Fatal("wrong password verified")
	}
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same input are identical; digest is not salted")
	}
	if !h.Verify("same-input", a) || !h.Verify("same-input", b) {
		t.Fatal("salted digests did not both verify")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$xx"} {
		if h.Verify("anything", digest) {
			t.Fatalf("malformed digest %q verified", digest)
		}
	}
}

func TestNewHasherClampsBadCost(t *testing.T) {
	t.Parallel()

	h := NewHasher(9999)
	digest, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error with out-of-range cost: %v", err)
	}
	if !h.Verify("pw", digest) {
		t.Fatal("digest from clamped cost did not verify")
	}
}
