/*
Package umlweb is the backend of a UML use-case editor.

It keeps one project (actors, use cases with their main and alternative flows,
actor/use-case links, use-case associations and canvas positions) behind a
single Store, persists every accepted change through a pluggable BlobStore and
converts projects to and from the urn:umlweb:v1 XML document format.

# Layout

  - pkg/domain: entities, pure edit operations and cascade rules.
  - pkg/store: the serialized, observable project store.
  - pkg/persistence: JSON snapshots over any ports.BlobStore.
  - pkg/xmlcodec: the dual-layer XML import and export.
  - pkg/canvas: diagram nodes, edges and drop handling.
  - pkg/adapters: memory, file, redis, sqlite and postgres blob stores plus
    the HTTP and MCP front ends.

# Usage

	ctx := context.Background()
	st, err := umlweb.Open(ctx, memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}

	actor, _ := st.AddActor(ctx, domain.Actor{Name: "Customer"})
	uc, _ := st.AddUseCase(ctx, domain.UseCase{Name: "Checkout"})
	_, _ = st.Connect(ctx, actor, uc)

	fmt.Println(xmlcodec.Export(st.Snapshot(), xmlcodec.Options{}))
*/
package umlweb
