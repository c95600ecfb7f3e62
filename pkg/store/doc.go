/*
Package store holds the live project and applies every edit to it.

A Store owns one immutable domain.Snapshot. Each mutation computes a new
snapshot with the copy-on-write methods of package domain, saves it through a
ports.ProjectRepository and only then publishes it: the reference is swapped
and subscribers are notified in registration order. Notifications leave the
store in commit order even under concurrent writers; a change committed while
another goroutine is delivering is handed to that goroutine.

Names, descriptions and step texts are kept in Unicode NFC.

A save error aborts the mutation. The previous snapshot stays current,
subscribers are not called, and the error is returned wrapped with
domain.ErrStorageFailure. Edits that target an absent id are neither saved
nor published.

Selection state (focused element, open inspector) lives beside the snapshot
and is never persisted.
*/
package store
