// Package transport is the shared request pipeline: one configured HTTP client whose requests pass through
// interceptors on the way out and whose failures are classified and run through an ErrorChain on the way back.
//
// Every failure reaches the caller as a *errors.Error after the chain's side effects have run.
package transport
