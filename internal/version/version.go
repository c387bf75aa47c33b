package version

// Version is the current version of lsdisk.
// Use semantic versioning: MAJOR.MINOR.PATCH
const Version = "1.0.0"
