package enums

import "fmt"

// MembershipTier ranks customer loyalty levels.
type MembershipTier string

const (
	MembershipTierBronze MembershipTier = "bronze"
	MembershipTierSilver MembershipTier = "silver"
	MembershipTierGold   MembershipTier = "gold"
)

var validMembershipTiers = []MembershipTier{
	MembershipTierBronze,
	MembershipTierSilver,
	MembershipTierGold,
}

// String implements fmt.Stringer.
func (m MembershipTier) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MembershipTier.
func (m MembershipTier) IsValid() bool {
	for _, candidate := range validMembershipTiers {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMembershipTier converts raw input into a MembershipTier.
func ParseMembershipTier(value string) (MembershipTier, error) {
	for _, candidate := range validMembershipTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership tier %q", value)
}
