package umlweb

// Version is the release of the umlweb module. Builds may override it with
// -ldflags "-X github.com/aretw0/umlweb.Version=...".
var Version = "0.1.0"
