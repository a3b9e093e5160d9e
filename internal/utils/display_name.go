package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"Kind", "Generous", "Caring", "Hopeful", "Gentle",
	"Brave", "Bright", "Warm", "Steady", "Giving",
	"Cheerful", "Humble", "Loyal", "Patient", "Radiant",
}

var nouns = []string{
	"Donor", "Helper", "Friend", "Neighbor", "Patron",
	"Ally", "Guardian", "Supporter", "Sponsor", "Volunteer",
	"Champion", "Backer", "Giver", "Mentor", "Steward",
}

// GenerateDisplayName creates a random public name in the format
// "Adjective Noun XXXX" for users who sign up without one
func GenerateDisplayName() (string, error) {
	adjIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(adjectives))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random adjective: %w", err)
	}

	nounIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(nouns))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random noun: %w", err)
	}

	// 4-digit suffix keeps collisions rare
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s %s %04d",
		adjectives[adjIdx.Int64()],
		nouns[nounIdx.Int64()],
		suffix.Int64(),
	), nil
}
