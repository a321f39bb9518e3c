package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
)

const (
	UsernameMinLen = 2
	UsernameMaxLen = 50
	PasswordMinLen = 8
	PasswordMaxLen = 20

	generatedPasswordLen = 8
)

// ValidateRegistration checks a registration form before it is sent.
// The returned error is a validation error listing every violated field.
func ValidateRegistration(r Registration) error {
	var problems []string
	problems = appendProblem(problems, checkUsername(r.Username))
	problems = appendProblem(problems, checkEmail(r.Email))
	if r.Password != "" {
		problems = appendProblem(problems, checkPassword(r.Password))
	}
	return problemsError(problems)
}

// ValidatePatch checks only the fields present in the patch.
func ValidatePatch(p UserPatch) error {
	var problems []string
	if p.Username != nil {
		problems = appendProblem(problems, checkUsername(*p.Username))
	}
	if p.Email != nil {
		problems = appendProblem(problems, checkEmail(*p.Email))
	}
	if p.Password != nil && *p.Password != "" {
		problems = appendProblem(problems, checkPassword(*p.Password))
	}
	return problemsError(problems)
}

func appendProblem(problems []string, p string) []string {
	if p == "" {
		return problems
	}
	return append(problems, p)
}

func problemsError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return apperrors.ValidationError(strings.Join(problems, "; ")).
		WithContext("fields", len(problems))
}

func checkUsername(s string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n < UsernameMinLen || n > UsernameMaxLen {
		return fmt.Sprintf("username must be %d to %d characters", UsernameMinLen, UsernameMaxLen)
	}
	return ""
}

func checkEmail(s string) string {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "email must be a valid address"
	}
	return ""
}

func checkPassword(s string) string {
	n := utf8.RuneCountInString(s)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return fmt.Sprintf("password must be %d to %d characters", PasswordMinLen, PasswordMaxLen)
	}

	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return "password must contain a lowercase letter, an uppercase letter and a digit"
	}
	return ""
}

const (
	lowerAlphabet    = "abcdefghijklmnopqrstuvwxyz"
	upperAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitAlphabet    = "0123456789"
	passwordAlphabet = lowerAlphabet + upperAlphabet + digitAlphabet
)

// GeneratePassword returns a random password for registrations submitted without one. It always holds a
// lowercase letter, an uppercase letter and a digit, so it passes the same checks as a typed password.
func GeneratePassword() (string, error) {
	sets := []string{lowerAlphabet, upperAlphabet, digitAlphabet}
	for len(sets) < generatedPasswordLen {
		sets = append(sets, passwordAlphabet)
	}

	pw := make([]byte, generatedPasswordLen)
	for i, set := range sets {
		n, err := randIndex(len(set))
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		pw[i] = set[n]
	}

	for i := len(pw) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		pw[i], pw[j] = pw[j], pw[i]
	}
	return string(pw), nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
