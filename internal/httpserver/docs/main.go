//go:build swagger
// +build swagger

// ⚠️ DOCUMENTATION GENERATION ONLY - NOT RUNTIME CODE
// Package docs provides OpenAPI/Swagger documentation for the driver's
// debug introspection server.
package docs

// @title			Driver debug API
// @version		1.0
// @description	Read-only introspection over one driver invocation's dependency graph, color map, and Prometheus metrics.

// @host		localhost:7777
// @BasePath	/

// @schemes	http
