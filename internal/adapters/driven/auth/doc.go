// Package auth provides token providers for the GitHub connector.
package auth
