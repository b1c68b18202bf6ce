package types

// Version is the canonical project version.
// The CLI, the archive format and the dataset records share this version.
const Version = "0.1.0"
