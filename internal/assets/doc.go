// Package assets provides print stylesheets for documents the CLI builds
// from Markdown.
//
//	StyleLoader (interface)
//	    ├── EmbeddedLoader    built-in styles compiled into the binary
//	    ├── FilesystemLoader  {dir}/{name}.css from a user directory
//	    └── Resolver          user directory first, built-ins as fallback
//
// Style names are plain identifiers: no separators, dots or traversal.
// FilesystemLoader resolves symlinks and keeps reads inside its directory.
package assets
