// Package mount implements the schema-mount extension: a container or list
// may declare that the data subtree rooted there is governed by a different
// schema context, chosen at data-instance time from operational
// schema-mount and module-library data.
//
// A mounted context is either shared — cached per mount-point label and
// reused by every document presenting the same content-id — or inline,
// built fresh for every document. Shared caches are guarded by one mutex
// per label group; the mutex is held across context construction so two
// threads resolving the same label for the first time cannot publish
// divergent contexts. Once published, a context is never mutated again by
// this package.
//
// The package registers four hooks with the host's extension dispatch:
// compile, parse, validate, and free. Validation temporarily copies
// parent-referenced host data into the mounted context so that constraints
// inside the mounted schema can see it; the host tree is restored on every
// exit path.
package mount
