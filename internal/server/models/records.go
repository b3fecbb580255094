package models

import "time"

// Session is an issued login; it is removed on logout.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// TransactionKind classifies a balance movement.
type TransactionKind int32

const (
	KindUnspecified TransactionKind = 0
	KindBonus       TransactionKind = 1
	KindBetStake    TransactionKind = 2
	KindBetPayout   TransactionKind = 3
	KindWithdrawal  TransactionKind = 4
)

func (k TransactionKind) String() string {
	switch k {
	case KindBonus:
		return "bonus"
	case KindBetStake:
		return "bet_stake"
	case KindBetPayout:
		return "bet_payout"
	case KindWithdrawal:
		return "withdrawal"
	}
	return "unspecified"
}

// Transaction records one signed change of a user's balance.
type Transaction struct {
	ID           string
	UserID       string
	Kind         TransactionKind
	Amount       int64
	BalanceAfter int64
	CreatedAt    time.Time
}

func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Bet is one settled round of a game.
type Bet struct {
	ID        string
	UserID    string
	Game      string
	Choice    string
	Outcome   string
	Amount    int64
	Payout    int64
	CreatedAt time.Time
}

func (b *Bet) Clone() *Bet {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// WithdrawalStatus tracks a payout request.
type WithdrawalStatus int32

const (
	WithdrawalUnspecified WithdrawalStatus = 0
	WithdrawalPending     WithdrawalStatus = 1
	WithdrawalCompleted   WithdrawalStatus = 2
	WithdrawalRejected    WithdrawalStatus = 3
)

func (s WithdrawalStatus) String() string {
	switch s {
	case WithdrawalPending:
		return "pending"
	case WithdrawalCompleted:
		return "completed"
	case WithdrawalRejected:
		return "rejected"
	}
	return "unspecified"
}

// Withdrawal is a request to pay out part of a balance.
type Withdrawal struct {
	ID        string
	UserID    string
	Amount    int64
	Status    WithdrawalStatus
	CreatedAt time.Time
}

func (w *Withdrawal) Clone() *Withdrawal {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
