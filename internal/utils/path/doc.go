// Package pathutils resolves local file locations before they are read.
package pathutils
