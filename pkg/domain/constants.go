package domain

const (
	// ExtNamespace is the XML namespace URI of the editor extension layer.
	ExtNamespace = "urn:umlweb:v1"

	// DefaultProjectKey is the key a project snapshot is stored under.
	DefaultProjectKey = "uml-project-data"

	// DefaultActorName is used when an imported actor carries no name.
	DefaultActorName = "Actor"
)
