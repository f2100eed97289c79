// Package matchmaking creates duel sessions and manages who sits in them.
package matchmaking
