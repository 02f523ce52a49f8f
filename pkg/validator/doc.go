// Package validator provides composable validation rules that are applied
// explicitly at write boundaries rather than through persistence hooks.
// Rules are plain values; Apply runs them and collects every failure into a
// single ValidationErrors value suitable for field-level API responses.
package validator
