// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size for JSON request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxPhotoUpload is the maximum size for profile picture uploads.
	MaxPhotoUpload = 5 << 20 // 5 MB
)
