// Package pricing holds the offer acceptance policy for bargain sessions.
// It is the single source of truth for price validation: the session service
// and any scripted counter-offer logic must go through it. Pure functions,
// no I/O.
package pricing

// Policy validates proposed offers against a reference price and a fixed
// maximum discount fraction (e.g. 0.05 for 5%).
type Policy struct {
	MaxDiscount float64
}

// NewPolicy creates a Policy with the given maximum discount fraction.
func NewPolicy(maxDiscount float64) Policy {
	return Policy{MaxDiscount: maxDiscount}
}

// Floor returns the minimum price a seller will accept for the given
// reference price: reference × (1 − MaxDiscount).
func (p Policy) Floor(referencePrice float64) float64 {
	return referencePrice * (1 - p.MaxDiscount)
}

// IsValidOffer reports whether the offer amount is acceptable against the
// reference price: Floor(reference) <= offer < reference. An offer equal to
// or above the reference is rejected (a valid offer must represent a
// discount); one below the floor exceeds the allowed concession.
func (p Policy) IsValidOffer(offerAmount, referencePrice float64) bool {
	if offerAmount <= 0 || referencePrice <= 0 {
		return false
	}
	return offerAmount >= p.Floor(referencePrice) && offerAmount < referencePrice
}
