package models

import "time"

// UserStatus decides whether a user may log in.
type UserStatus int32

const (
	StatusUnspecified UserStatus = 0
	StatusActive      UserStatus = 1
	StatusInactive    UserStatus = 2
)

func (s UserStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	}
	return "unspecified"
}

// ParseUserStatus is the inverse of UserStatus.String.
func ParseUserStatus(s string) (UserStatus, bool) {
	switch s {
	case "active":
		return StatusActive, true
	case "inactive":
		return StatusInactive, true
	}
	return StatusUnspecified, false
}

// User is an account embedded in Graph.Users.
//
// Password holds a bcrypt hash. ID and CreatedAt never change after
// registration; LastLogin moves on every successful login.
type User struct {
	ID           string
	Username     string
	Email        string
	RealName     string
	Password     string
	Balance      int64
	Status       UserStatus
	CreatedAt    time.Time
	LastLogin    time.Time
	Transactions []*Transaction
	Bets         []*Bet
	Withdrawals  []*Withdrawal
}

// Active reports whether the user is allowed to authenticate.
func (u *User) Active() bool { return u.Status == StatusActive }

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Transactions = cloneAll(u.Transactions, (*Transaction).Clone)
	c.Bets = cloneAll(u.Bets, (*Bet).Clone)
	c.Withdrawals = cloneAll(u.Withdrawals, (*Withdrawal).Clone)
	return &c
}
