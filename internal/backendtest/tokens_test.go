package backendtest

import (
	"testing"
	"time"
)

func TestVerifyToken(t *testing.T) {
	tok, err := signToken("uid-1", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	uid, err := verifyToken(tok)
	if err != nil || uid != "uid-1" {
		t.Fatalf("verify: uid=%q err=%v", uid, err)
	}

	expired, _ := signToken("uid-1", -time.Minute)
	tests := []struct {
		name string
		raw  string
	}{
		{"expired", expired},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := verifyToken(tt.raw); err == nil {
				t.Error("expected rejection")
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := hashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !checkPassword(h, "hunter22") {
		t.Error("correct password rejected")
	}
	if checkPassword(h, "hunter23") {
		t.Error("wrong password accepted")
	}
}
