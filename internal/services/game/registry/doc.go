// Package registry owns every live duel session.
//
// All reads and writes of session state go through a Registry. Mutations on
// one session id are serialized by a per-session lock; different ids never
// contend beyond a short read lock on the index. Callers only ever receive
// value copies, so nothing they hold aliases registry storage.
package registry
