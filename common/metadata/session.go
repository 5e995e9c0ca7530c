package metadata

import (
	"github.com/spf13/cast"
)

// Session is the read side of the hosting framework's session store. It matches
// the Get method of gin-contrib/sessions.Session.
type Session interface {
	Get(key any) any
}

// MapSession is a Session backed by a plain map.
type MapSession map[string]any

func (s MapSession) Get(key any) any {
	k, ok := key.(string)
	if !ok {
		return nil
	}
	return s[k]
}

// sessionValue reads key from s. Nil sessions, missing keys and values that
// cannot be rendered as a string are absent.
func sessionValue(s Session, key string) optional {
	if s == nil {
		return optional{}
	}
	raw := s.Get(key)
	if raw == nil {
		return optional{}
	}
	v, err := cast.ToStringE(raw)
	if err != nil {
		return optional{}
	}
	return some(v)
}
