// Package mediatypes classifies files by extension into the media types the
// store indexes, maps extensions to MIME types, and implements the wildcard
// MIME matching used by the video allow-list filter.
package mediatypes
