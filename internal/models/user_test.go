package models

import "testing"

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "", want: ""},
		{name: "ada", want: "A"},
		{name: "Ada Lovelace", want: "AL"},
		{name: "  Grace  Brewster Hopper ", want: "GH"},
		{name: "émile zola", want: "ÉZ"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewUserNormalizesEmail(t *testing.T) {
	u := NewUser("  Ada@Example.COM ", " Ada ", "hash")
	if u.Email != "ada@example.com" {
		t.Errorf("Email = %q, want ada@example.com", u.Email)
	}
	if u.Name != "Ada" {
		t.Errorf("Name = %q, want Ada", u.Name)
	}
	if u.ID == "" || u.CreatedAt == 0 || u.UpdatedAt != u.CreatedAt {
		t.Errorf("NewUser did not set identity fields: %+v", u)
	}
	if u.EmailVerified {
		t.Error("new users must start unverified")
	}
	if !u.HasPassword() {
		t.Error("HasPassword() = false with a hash set")
	}
}

func TestActionTokenUsable(t *testing.T) {
	used := int64(5)
	tok := &ActionToken{ExpiresAt: 100}
	if !tok.Usable(99) {
		t.Error("token should be usable before expiry")
	}
	if tok.Usable(100) {
		t.Error("token should expire at ExpiresAt")
	}
	tok.UsedAt = &used
	if tok.Usable(1) {
		t.Error("used token should not be usable")
	}
}
