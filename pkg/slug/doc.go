// Package slug generates URL-safe identifiers from post titles.
package slug
