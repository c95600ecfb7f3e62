/*
Package ports defines the driven ports (interfaces) of umlweb.

These interfaces decouple the project store from concrete persistence, so the
same store runs against memory, files, Redis, SQLite or PostgreSQL.

# Key Interfaces

  - BlobStore: opaque key-value storage implemented by the adapters.
  - ProjectRepository: loads and saves a project Snapshot; implemented by
    package persistence on top of any BlobStore.

RunBlobStoreContract and RunProjectRepositoryContract are reusable test
suites every implementation should pass.
*/
package ports
