package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_NonDeterministic(t *testing.T) {
	p := "correct horse battery staple"
	h1, err := HashPassword(p)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword(p)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different hashes for same password")
	}
}

func TestVerifyPassword(t *testing.T) {
	p := "correct horse battery staple"
	h, err := HashPassword(p)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword(h, p)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = VerifyPassword(h, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPasswordBcrypt(t *testing.T) {
	h, err := HashPasswordBcrypt("hunter2hunter2", 4)
	if err != nil {
		t.Fatalf("HashPasswordBcrypt: %v", err)
	}
	if !strings.HasPrefix(h, "$2a$04$") {
		t.Fatalf("unexpected bcrypt hash: %s", h)
	}

	ok, err := verifyBcrypt(h, "hunter2hunter2")
	if err != nil || !ok {
		t.Fatalf("expected bcrypt hash to verify: ok=%v err=%v", ok, err)
	}
	ok, err = verifyBcrypt(h, "hunter3")
	if err != nil || ok {
		t.Fatalf("expected bcrypt mismatch: ok=%v err=%v", ok, err)
	}
}

func TestVerifyPassword_RejectsMalformedHash(t *testing.T) {
	for _, h := range []string{
		"",
		"$argon2id$v=19$m=65536,t=3,p=2$salt",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$x=1$c2FsdA$a2V5",
	} {
		if _, err := VerifyPassword(h, "pw"); err == nil {
			t.Fatalf("expected error for %q", h)
		}
	}
}
