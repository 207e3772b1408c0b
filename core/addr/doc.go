// Package addr holds the value objects shared by the area configuration and the
// reconciliation engine: numeric house-number ranges, normalized house numbers,
// their coalesced display ranges, and streets.
//
// # Ranges
//
// A Range is an inclusive numeric interval. Under InterpolationDefault only
// numbers sharing the parity of Start are members, under InterpolationAll every
// integer in the interval is. A Ranges value groups the ranges configured for
// one street and resolves the settlement code a number belongs to.
//
// # House numbers
//
// HouseNumber equality is defined on the normalized number only. Display order
// is numeric on the leading digits, then lexicographic on the remainder.
package addr
