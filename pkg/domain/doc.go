/*
Package domain contains the core data model of a umlweb project.

It defines the entities of a use-case diagram (actors, use cases with their
main and alternative flows, links, associations and layout) and the pure,
copy-on-write operations that derive a new project Snapshot from an old one.
The package has no I/O and no persistence concerns, following Hexagonal
Architecture principles: stores, codecs and front ends depend on it, never the
other way round.

# Key Entities

  - Actor: an external person or system interacting with use cases.
  - UseCase: a named unit of behavior with an ordered main flow (Phrases) and
    zero or more AlternativeFlows branching from a main-flow phrase.
  - ActorUseCaseLink: an undirected edge between an actor and a use case.
  - UseCaseAssociation: a typed, directed relation between two use cases.
  - NodePosition: canvas layout keyed by entity id.
  - Snapshot: the whole project value, as persisted and as exported.

# Copy-on-write

Every mutating method on Snapshot has a value receiver and returns a new
Snapshot plus a flag telling whether anything changed. The receiver is never
modified, so two snapshots can be compared by value and old snapshots stay
valid after an edit.
*/
package domain
