// Package utils provides common utility functions for the sheet-diff application.
// It includes scalar conversion helpers shared by the dataset loaders and the HTTP
// form parsing that don't fit into domain-specific packages.
package utils
