package relay

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/osamagivegh-hash/booking4u-sub002/service/identity"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/security"
)

// Authenticator gates every new connection before any event handler is
// wired up. It runs exactly once per connection. The directory lookup is
// the only suspension point in the whole connect path; registration only
// happens after it returns, so the registry never sees a half-registered
// connection.
type Authenticator struct {
	opts          security.Options
	dir           identity.Directory
	lookupTimeout time.Duration
}

func NewAuthenticator(secret []byte, dir identity.Directory, lookupTimeout time.Duration) *Authenticator {
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &Authenticator{
		opts:          security.DefaultOptions(secret),
		dir:           dir,
		lookupTimeout: lookupTimeout,
	}
}

// Authenticate resolves a bearer token to a user profile. Each rejection
// path surfaces a distinct client-visible reason:
// no token -> ErrAuthRequired, bad signature/expiry -> ErrTokenInvalid,
// unknown subject -> ErrUserNotFound, inactive subject -> ErrUserInactive.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*identity.Profile, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errs.ErrAuthRequired
	}

	claims, err := security.Verify(a.opts, token)
	if err != nil {
		return nil, errs.ErrTokenInvalid.WithDetail(err.Error())
	}

	lctx, cancel := context.WithTimeout(ctx, a.lookupTimeout)
	defer cancel()
	profile, err := a.dir.Lookup(lctx, claims.UserID)
	if errors.Is(err, identity.ErrNotFound) {
		return nil, errs.ErrUserNotFound.WithDetail("subject " + claims.UserID)
	}
	if err != nil {
		// Infrastructure failure, not one of the four client reasons; the
		// caller rejects with the generic token error and logs the cause.
		return nil, errs.ErrTokenInvalid.WithDetail(err.Error())
	}
	if !profile.Active {
		return nil, errs.ErrUserInactive.WithDetail("subject " + claims.UserID)
	}
	return profile, nil
}
