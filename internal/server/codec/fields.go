package codec

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers of the snapshot wire format. They follow protobuf rules:
// numbers are never reused, new optional fields take new numbers, and
// readers skip numbers they do not know.
//
//	message Envelope    { uint32 version = 1; bytes graph = 2; bytes digest = 3; }
//	message Graph       { repeated User users = 1; repeated Session sessions = 2;
//	                      repeated Transaction all_transactions = 3; repeated Bet all_bets = 4;
//	                      repeated Withdrawal all_withdrawals = 5; Webserver webserver = 6;
//	                      Settings settings = 7; }
//	message Timestamp   { int64 seconds = 1; int32 nanos = 2; }
const (
	envelopeVersion protowire.Number = 1
	envelopeGraph   protowire.Number = 2
	envelopeDigest  protowire.Number = 3
)

const (
	graphUsers           protowire.Number = 1
	graphSessions        protowire.Number = 2
	graphAllTransactions protowire.Number = 3
	graphAllBets         protowire.Number = 4
	graphAllWithdrawals  protowire.Number = 5
	graphWebserver       protowire.Number = 6
	graphSettings        protowire.Number = 7
)

const (
	userID           protowire.Number = 1
	userUsername     protowire.Number = 2
	userEmail        protowire.Number = 3
	userRealName     protowire.Number = 4
	userPassword     protowire.Number = 5
	userBalance      protowire.Number = 6 // sint64
	userStatus       protowire.Number = 7
	userCreatedAt    protowire.Number = 8
	userLastLogin    protowire.Number = 9
	userTransactions protowire.Number = 10
	userBets         protowire.Number = 11
	userWithdrawals  protowire.Number = 12
)

const (
	sessionID        protowire.Number = 1
	sessionUserID    protowire.Number = 2
	sessionCreatedAt protowire.Number = 3
	sessionExpiresAt protowire.Number = 4
)

const (
	transactionID           protowire.Number = 1
	transactionUserID       protowire.Number = 2
	transactionKind         protowire.Number = 3
	transactionAmount       protowire.Number = 4 // sint64
	transactionBalanceAfter protowire.Number = 5 // sint64
	transactionCreatedAt    protowire.Number = 6
)

const (
	betID        protowire.Number = 1
	betUserID    protowire.Number = 2
	betGame      protowire.Number = 3
	betChoice    protowire.Number = 4
	betOutcome   protowire.Number = 5
	betAmount    protowire.Number = 6 // sint64
	betPayout    protowire.Number = 7 // sint64
	betCreatedAt protowire.Number = 8
)

const (
	withdrawalID        protowire.Number = 1
	withdrawalUserID    protowire.Number = 2
	withdrawalAmount    protowire.Number = 3 // sint64
	withdrawalStatus    protowire.Number = 4
	withdrawalCreatedAt protowire.Number = 5
)

const (
	webserverURL         protowire.Number = 1
	webserverPort        protowire.Number = 2
	webserverProtocol    protowire.Number = 3
	webserverName        protowire.Number = 4
	webserverVersion     protowire.Number = 5
	webserverDescription protowire.Number = 6
	webserverAuthor      protowire.Number = 7
	webserverLicense     protowire.Number = 8
)

const (
	settingsPaymentsEnabled protowire.Number = 1
	settingsMaintenance     protowire.Number = 2
	settingsLogLevel        protowire.Number = 3
)

const (
	timestampSeconds protowire.Number = 1
	timestampNanos   protowire.Number = 2
)
