package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// SnapshotKey is the row id of the single persisted snapshot.
const SnapshotKey int64 = 1

// InitialBalance is credited to every newly registered account.
const InitialBalance int64 = 1000
