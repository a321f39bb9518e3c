package transport

import (
	"net/http"

	"github.com/pscheid92/forumclient/internal/platform/correlation"
)

// Interceptor adjusts an outgoing request. A returned error aborts the request as a configuration failure.
type Interceptor func(req *http.Request) error

// JSONHeaders asks for JSON and labels JSON bodies. Requests that already carry a Content-Type keep it.
func JSONHeaders() Interceptor {
	return func(req *http.Request) error {
		req.Header.Set("Accept", "application/json")
		if req.Body != nil && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
		return nil
	}
}

func UserAgent(ua string) Interceptor {
	return func(req *http.Request) error {
		req.Header.Set("User-Agent", ua)
		return nil
	}
}

// CorrelationID forwards the context's correlation id so backend logs can be joined with ours.
func CorrelationID() Interceptor {
	return func(req *http.Request) error {
		if id, ok := correlation.ID(req.Context()); ok {
			req.Header.Set(correlation.Header, id)
		}
		return nil
	}
}
