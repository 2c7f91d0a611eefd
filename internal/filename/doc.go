// Package filename expands destination filename patterns such as
// "[contentHash:12].[ext]" against an asset's content and source path.
package filename
