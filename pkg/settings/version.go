package settings

// version is overridable at build time:
//
//	go build -ldflags "-X github.com/aksjaiswal/stanverse/pkg/settings.version=..."
var version = "dev"
