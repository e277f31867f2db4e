package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1000", "1000", true},
		{"1,500.50", "1500.5", true},
		{"$ 2,000", "2000", true},
		{"MXN 200", "200", true},
		{"", "0", false},
		{"abc", "0", false},
	}
	for _, c := range cases {
		got, ok := ParseDecimal(c.in)
		if ok != c.ok {
			t.Fatalf("ParseDecimal(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && !got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("ParseDecimal(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	if n, ok := ParseCount("12.0"); !ok || n != 12 {
		t.Fatalf("ParseCount(12.0) = %d, %v", n, ok)
	}
	if _, ok := ParseCount(""); ok {
		t.Fatal("blank count should not parse")
	}
}

func TestFormatThousands(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"999":      "999",
		"1000":     "1,000",
		"1234567":  "1,234,567",
		"2500.4":   "2,500",
		"-15000.0": "-15,000",
	}
	for in, want := range cases {
		if got := FormatThousands(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatThousands(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m, err := NewTokenManager("0123456789abcdef-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := m.GenerateAccessToken("operador")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "operador" {
		t.Fatalf("username = %q", claims.Username)
	}
	if claims.ID == "" {
		t.Fatal("token id should be set")
	}
}

func TestTokenManagerRejectsExpiredAndForeign(t *testing.T) {
	m, _ := NewTokenManager("0123456789abcdef-secret", time.Minute)
	token, _ := m.GenerateAccessToken("operador")

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expired token should be rejected")
	}

	other, _ := NewTokenManager("another-secret-of-16b", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret should be rejected")
	}
}

func TestNewTokenManagerShortSecret(t *testing.T) {
	if _, err := NewTokenManager("short", time.Hour); err == nil {
		t.Fatal("short secret should be rejected")
	}
}

func TestValidatePhoneNumberRejectsGarbage(t *testing.T) {
	if err := ValidatePhoneNumber("123", "MX"); err == nil {
		t.Fatal("expected error for a three digit phone")
	}
}

func TestGetenvList(t *testing.T) {
	t.Setenv("GB_TEST_LIST", " a, ,b ,")
	got := GetenvList("GB_TEST_LIST", nil)
	if strings.Join(got, "|") != "a|b" {
		t.Fatalf("GetenvList = %v", got)
	}
	if got := GetenvList("GB_TEST_UNSET", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("fallback = %v", got)
	}
}
