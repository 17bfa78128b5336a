// README: Authenticated caller identity, passed explicitly to services that act on behalf of a user.
package auth

import "errors"

var ErrNoSession = errors.New("no authenticated session")

// Session is the verified caller. Token is the raw bearer token, forwarded to the backend.
type Session struct {
	UID   string
	Token string
	Email string
}

func (s Session) Valid() bool {
	return s.UID != "" && s.Token != ""
}
