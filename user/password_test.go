package user

import "testing"

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u := User{PasswordHash: hash}

	if !u.CheckPassword("password123") {
		t.Errorf("expected matching password to pass")
	}
	if u.CheckPassword("password124") {
		t.Errorf("expected wrong password to fail")
	}
}
