// Package flags holds helpers shared by command flag definitions.
package flags
