package build_info

// Overwritten with ldflags upon release
var (
	Version   = "dev"
	BuildDate = "0"
)
