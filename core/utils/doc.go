// Package utils provides common utility functions shared across the application.
// It includes helper functions for coercing loosely-typed payload values (as
// decoded from JSON documents or raw database rows) into concrete Go types.
package utils
