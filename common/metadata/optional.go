package metadata

import "strings"

// optional distinguishes an absent value from an empty one.
type optional struct {
	value string
	set   bool
}

func some(v string) optional { return optional{value: v, set: true} }

func (o optional) get() (string, bool) { return o.value, o.set }

// blank reports whether the value is absent or whitespace only.
func (o optional) blank() bool {
	return !o.set || strings.TrimSpace(o.value) == ""
}

func (o optional) or(other optional) optional {
	if o.set {
		return o
	}
	return other
}

func (o optional) orPlaceholder(placeholder string) string {
	if o.set {
		return o.value
	}
	return placeholder
}
