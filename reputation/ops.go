package reputation

import "fmt"

// Mint credits amount to the account's balance and score.
func Mint(a *Account, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: mint amount must be positive", ErrInvalidAmount)
	}
	a.Balance += amount
	a.Score += amount
	return nil
}

// Slash debits amount from the account and credits it to the treasury
// account. Both sides are validated before either is touched; the two
// writes must reach storage in the same commit.
func Slash(a, treasury *Account, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: slash amount must be positive", ErrInvalidAmount)
	}
	if amount > a.Balance {
		return fmt.Errorf("%w: slash %d exceeds balance %d", ErrInsufficientBalance, amount, a.Balance)
	}
	a.Balance -= amount
	// Yield credits raise balance without score, so the score can sit
	// below the balance; floor it rather than underflow.
	if amount > a.Score {
		a.Score = 0
	} else {
		a.Score -= amount
	}
	treasury.Balance += amount
	return nil
}

// Transfer moves amount from one account to another. Scores are untouched:
// reputation is earned by mint, not by holding tokens.
func Transfer(from, to *Account, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidAmount)
	}
	if amount > from.Balance {
		return fmt.Errorf("%w: transfer %d exceeds balance %d", ErrInsufficientBalance, amount, from.Balance)
	}
	from.Balance -= amount
	to.Balance += amount
	return nil
}
