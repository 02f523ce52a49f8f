// Package imaging normalizes uploaded images to the sizes and format the
// application serves.
package imaging
