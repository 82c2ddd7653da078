package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordMinLength is the minimum accepted password length, in runes.
const PasswordMinLength = 8

// passwordSymbols is the punctuation set that satisfies RuleDigitOrSymbol.
const passwordSymbols = "{}[]/?.,;:|)*~`!^-_+<>@#$%\\=('\""

// Rule identifies a single password policy rule.
type Rule string

const (
	// RuleMinLength requires at least PasswordMinLength characters.
	RuleMinLength Rule = "min_length"
	// RuleDigitOrSymbol requires at least one digit or punctuation symbol.
	RuleDigitOrSymbol Rule = "digit_or_symbol"
	// RuleNoLastname forbids the user's lastname inside the password,
	// ignoring case.
	RuleNoLastname Rule = "no_lastname"
	// RuleNoEmailLocal forbids the email local part inside the password,
	// ignoring case.
	RuleNoEmailLocal Rule = "no_email_local"
)

var ruleHints = map[Rule]string{
	RuleMinLength:     "password must be at least 8 characters",
	RuleDigitOrSymbol: "password must contain a number or a symbol",
	RuleNoLastname:    "password must not contain your last name",
	RuleNoEmailLocal:  "password must not contain your email name",
}

// Hint returns the user-facing message for a failed rule.
func (r Rule) Hint() string {
	if hint, ok := ruleHints[r]; ok {
		return hint
	}
	return string(r)
}

// PolicyResult is the outcome of running the password policy. It records
// every rule that failed so the caller can render one hint per rule.
type PolicyResult struct {
	failed []Rule
}

// Valid reports whether every rule passed.
func (r PolicyResult) Valid() bool {
	return len(r.failed) == 0
}

// Failed returns the rules that did not pass, in evaluation order.
func (r PolicyResult) Failed() []Rule {
	out := make([]Rule, len(r.failed))
	copy(out, r.failed)
	return out
}

// FailedRule reports whether one specific rule failed.
func (r PolicyResult) FailedRule(rule Rule) bool {
	for _, f := range r.failed {
		if f == rule {
			return true
		}
	}
	return false
}

// Hints returns one message per failed rule.
func (r PolicyResult) Hints() []string {
	hints := make([]string, 0, len(r.failed))
	for _, f := range r.failed {
		hints = append(hints, f.Hint())
	}
	return hints
}

// ValidatePassword runs every policy rule against the candidate password.
// It is a pure function: the email and lastname are only consulted for the
// identity-overlap rules, and empty identity values never fail those rules
// (missing fields are rejected before the policy runs).
func ValidatePassword(password, email, lastname string) PolicyResult {
	result := PolicyResult{}

	if utf8.RuneCountInString(password) < PasswordMinLength {
		result.failed = append(result.failed, RuleMinLength)
	}

	if !containsDigitOrSymbol(password) {
		result.failed = append(result.failed, RuleDigitOrSymbol)
	}

	if lastname != "" && containsFold(password, lastname) {
		result.failed = append(result.failed, RuleNoLastname)
	}

	if local := emailLocalPart(email); local != "" && containsFold(password, local) {
		result.failed = append(result.failed, RuleNoEmailLocal)
	}

	return result
}

// containsFold reports whether s contains substr ignoring case, so
// "kim12345" still matches a lastname of "Kim".
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsDigitOrSymbol(password string) bool {
	for _, r := range password {
		if unicode.IsDigit(r) || strings.ContainsRune(passwordSymbols, r) {
			return true
		}
	}
	return false
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}
