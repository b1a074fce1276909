package domain

import "errors"

// Cross-cutting sentinels shared by services and transports.
var ErrForbidden = errors.New("access forbidden")
var ErrRoleMismatch = errors.New("user does not hold the required role")
var ErrChallengeRequired = errors.New("pin verification required")
var ErrIdentityRejected = errors.New("identity provider rejected the session")
var ErrIdentityMismatch = errors.New("identity account does not match the user")
var ErrIdentityUnavailable = errors.New("identity provider unreachable")
