package trading

import "sync"

// Account tracks simulated capital. Realized P&L is applied exactly once per
// close; no mark-to-market is computed, so unrealized P&L is always zero.
type Account struct {
	mu       sync.Mutex
	balance  float64
	realized float64
	wins     int
	losses   int
}

// NewAccount creates an account with the given starting capital.
func NewAccount(initialCapital float64) *Account {
	return &Account{balance: initialCapital}
}

// ApplyClose credits one closed position's realized P&L to the balance.
func (a *Account) ApplyClose(pnl float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance += pnl
	a.realized += pnl
	if pnl > 0 {
		a.wins++
	} else {
		a.losses++
	}
}

// Balance returns the current balance.
func (a *Account) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Summary returns the balance, cumulative realized P&L, and win/loss counts.
func (a *Account) Summary() (balance, realized float64, wins, losses int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance, a.realized, a.wins, a.losses
}
