// Package markup prepares CLI input for the renderer: Markdown to HTML,
// stylesheet injection, and rewriting of relative asset references so a
// document still resolves its images once copied to a temporary file.
package markup
