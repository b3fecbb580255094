// Package models holds the client-side views of server responses.
package models

// User is the account as the server reports it. The password hash is never
// sent to clients.
type User struct {
	ID        string
	Username  string
	Email     string
	RealName  string
	Balance   int64
	Status    string
	CreatedAt string
	LastLogin string
}

// Session is what a successful login hands back.
type Session struct {
	AccessToken string
	SessionID   string
	ExpiresAt   string
	User        User
}

// Bet is one settled round of the even/odd game.
type Bet struct {
	ID      string
	Game    string
	Choice  string
	Outcome string
	Amount  int64
	Payout  int64
	Won     bool
}

// Withdrawal is a pending payout request.
type Withdrawal struct {
	ID     string
	Amount int64
	Status string
}

// ServerInfo describes the server instance and its feature flags.
type ServerInfo struct {
	Name            string
	Version         string
	URL             string
	Port            string
	PaymentsEnabled bool
	Maintenance     bool
}
