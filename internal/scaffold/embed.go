package scaffold

import "embed"

// scaffoldFS holds the embedded template sets under scaffolds/.
//
//go:embed scaffolds
var scaffoldFS embed.FS
