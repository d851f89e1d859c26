// Package featurecsv stores feature rows as CSV, one instance per row.
//
// The header is instance_name, source, then the nine features in canonical
// order. Extra columns (for example a leading index column) are ignored on
// read, so files produced by other corpus tooling load unchanged.
package featurecsv
