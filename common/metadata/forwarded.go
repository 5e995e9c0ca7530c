package metadata

import "strings"

// MergeForwardedFor combines the true client IP set by the edge proxy with the
// forwarded-for chain. Blank values count as absent on both sides.
//
//	true-client-ip | x-forwarded-for | result
//	present        | absent          | true-client-ip
//	absent         | present         | x-forwarded-for
//	present        | present, prefix | x-forwarded-for
//	present        | present         | "<true-client-ip>, <x-forwarded-for>"
//	absent         | absent          | absent
func MergeForwardedFor(trueClientIP, forwardedFor string) (string, bool) {
	merged := mergeForwardedFor(optional{value: trueClientIP, set: true}, optional{value: forwardedFor, set: true})
	return merged.get()
}

func mergeForwardedFor(trueClientIP, forwardedFor optional) optional {
	hasClientIP := !trueClientIP.blank()
	hasForwarded := !forwardedFor.blank()

	switch {
	case hasClientIP && !hasForwarded:
		return trueClientIP
	case !hasClientIP && hasForwarded:
		return forwardedFor
	case hasClientIP && hasForwarded && strings.HasPrefix(forwardedFor.value, trueClientIP.value):
		return forwardedFor
	case hasClientIP && hasForwarded:
		return some(trueClientIP.value + ", " + forwardedFor.value)
	default:
		return optional{}
	}
}
