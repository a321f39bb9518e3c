package transport

import (
	"context"

	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
)

// Rule pairs a predicate on a classified failure with a side effect.
type Rule struct {
	Name   string
	Match  func(*apperrors.Error) bool
	Handle func(context.Context, *apperrors.Error)
}

// ErrorChain runs every matching rule, in order, for each failure. It never swallows or replaces the failure.
type ErrorChain struct {
	rules []Rule
}

func NewErrorChain(rules ...Rule) *ErrorChain {
	return &ErrorChain{rules: rules}
}

// Use appends a rule to the end of the chain.
func (c *ErrorChain) Use(r Rule) {
	c.rules = append(c.rules, r)
}

// Handle runs the chain and returns err unchanged.
func (c *ErrorChain) Handle(ctx context.Context, err *apperrors.Error) error {
	if err == nil {
		return nil
	}
	for _, r := range c.rules {
		if r.Match == nil || r.Match(err) {
			r.Handle(ctx, err)
		}
	}
	return err
}

// MatchType matches failures of any of the given types.
func MatchType(types ...apperrors.ErrorType) func(*apperrors.Error) bool {
	return func(err *apperrors.Error) bool {
		for _, t := range types {
			if err.Type == t {
				return true
			}
		}
		return false
	}
}
