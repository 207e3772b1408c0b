// Package utils provides small parsing helpers shared by the extract readers
// and the house-number normalizer: leading digit runs, lenient integer and
// boolean conversion, and multi-separator token splitting.
package utils
