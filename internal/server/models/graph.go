// Package models defines the shape of the persisted snapshot: one Graph
// holding every user, session and money movement plus the server identity
// and settings it was created with.
package models

// Graph is the root aggregate persisted as a single snapshot.
type Graph struct {
	Users           []*User
	Sessions        []*Session
	AllTransactions []*Transaction
	AllBets         []*Bet
	AllWithdrawals  []*Withdrawal
	Webserver       Webserver
	Settings        Settings
}

// Webserver identifies the server instance that created the graph.
type Webserver struct {
	URL         string
	Port        string
	Protocol    string
	Name        string
	Version     string
	Description string
	Author      string
	License     string
}

// Settings are the feature flags seeded at graph creation.
type Settings struct {
	PaymentsEnabled bool
	Maintenance     bool
	LogLevel        string
}

// NewGraph returns an empty graph seeded with the given identity and settings.
func NewGraph(ws Webserver, st Settings) *Graph {
	return &Graph{
		Users:           []*User{},
		Sessions:        []*Session{},
		AllTransactions: []*Transaction{},
		AllBets:         []*Bet{},
		AllWithdrawals:  []*Withdrawal{},
		Webserver:       ws,
		Settings:        st,
	}
}

// FindUser returns the user with the given id, or nil.
func (g *Graph) FindUser(id string) *User {
	for _, u := range g.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindUserByLogin returns the first user whose username or email matches.
// Empty arguments never match.
func (g *Graph) FindUserByLogin(username, email string) *User {
	for _, u := range g.Users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u
		}
	}
	return nil
}

// FindSession returns the session with the given id, or nil.
func (g *Graph) FindSession(id string) *Session {
	for _, s := range g.Sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Clone returns a deep copy of g sharing no pointers or slices with it.
// Graphs hold no nil entries; codec.Encode rejects one.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	return &Graph{
		Users:           cloneAll(g.Users, (*User).Clone),
		Sessions:        cloneAll(g.Sessions, (*Session).Clone),
		AllTransactions: cloneAll(g.AllTransactions, (*Transaction).Clone),
		AllBets:         cloneAll(g.AllBets, (*Bet).Clone),
		AllWithdrawals:  cloneAll(g.AllWithdrawals, (*Withdrawal).Clone),
		Webserver:       g.Webserver,
		Settings:        g.Settings,
	}
}

func cloneAll[T any](in []*T, clone func(*T) *T) []*T {
	if in == nil {
		return nil
	}
	out := make([]*T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}
