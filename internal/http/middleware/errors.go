package middleware

import "errors"

var errUnauthorized = errors.New("missing X-Actor-Id")
