package types

// Artifact describes one prebuilt runtime library inside a release.
type Artifact struct {
	// Path relative to the binaries root.
	// example: linux/x64/libllama.so
	Path string `json:"path" example:"linux/x64/libllama.so"`
	// Target OS segment (macos, ios, linux, android, windows).
	// example: linux
	OS string `json:"os" example:"linux"`
	// Target architecture segment (arm64, x64, arm64-sim, x86_64-sim).
	// example: x64
	Arch string `json:"arch" example:"x64"`
	// File size in bytes.
	// example: 2476032
	Size int64 `json:"size" example:"2476032"`
	// Lowercase hex SHA-256 digest of the file contents.
	SHA256 string `json:"sha256"`
}

// Manifest is the JSON release manifest emitted next to the binaries.
type Manifest struct {
	// Release version string, e.g. a llama.cpp tag like "b6293".
	Version string `json:"version"`
	// Unix seconds at generation time.
	GeneratedAt int64 `json:"generated_at"`
	// All artifacts, sorted by Path.
	Artifacts []Artifact `json:"artifacts"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: artifact not found
	Error string `json:"error" example:"artifact not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// StatusResponse is returned by GET /status of the distribution server.
type StatusResponse struct {
	// Release version served, from the manifest.
	Version string `json:"version"`
	// Number of artifacts available.
	Artifacts int `json:"artifacts"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
