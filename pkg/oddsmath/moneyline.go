package oddsmath

import (
	"fmt"
	"strconv"
)

// AmericanToDecimal converts an American moneyline to decimal odds
// +150 → 2.50, -150 → 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid moneyline: cannot be 0")
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// ImpliedProbability converts an American moneyline to the book's implied
// win probability, vig included
func ImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / decimal, nil
}

// FairWinProbabilities strips the vig from a two-way moneyline using the
// multiplicative method. The returned pair sums to 1.
func FairWinProbabilities(homeML, awayML int) (home, away float64, err error) {
	homeProb, err := ImpliedProbability(homeML)
	if err != nil {
		return 0, 0, fmt.Errorf("home moneyline: %w", err)
	}
	awayProb, err := ImpliedProbability(awayML)
	if err != nil {
		return 0, 0, fmt.Errorf("away moneyline: %w", err)
	}

	total := homeProb + awayProb
	if total <= 1.0 {
		return 0, 0, fmt.Errorf("no vig detected: probabilities sum to %.4f", total)
	}
	return homeProb / total, awayProb / total, nil
}

// FormatAmerican renders a moneyline with an explicit sign: +150, -110
func FormatAmerican(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
