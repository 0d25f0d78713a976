// Package cmd implements the shopctl command tree.
package cmd
