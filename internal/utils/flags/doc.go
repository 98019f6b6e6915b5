// Package flags provides yes/no toggle flags and usage helpers shared by filediff commands.
package flags
