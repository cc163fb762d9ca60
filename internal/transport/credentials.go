package transport

import (
	"context"
	"net/http"
)

type credentialsKey struct{}

// Credentials are the caller's auth headers forwarded to credentialed backends.
type Credentials struct {
	Cookie        string
	Authorization string
}

// WithCredentials attaches the incoming request's credentials to ctx.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials attached to ctx, if any.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

func applyCredentials(ctx context.Context, req *http.Request) {
	creds, ok := CredentialsFrom(ctx)
	if !ok {
		return
	}
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.Authorization != "" {
		req.Header.Set("Authorization", creds.Authorization)
	}
}
