//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// They are run with `go run pkg@version` or installed with `go install` and are
// not tracked in go.mod.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks
//   Run: go generate ./internal/mocks/...
//   Version: go.uber.org/mock/mockgen@v0.6.0
//
// Air - live reload for the dashboard while editing templates
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
