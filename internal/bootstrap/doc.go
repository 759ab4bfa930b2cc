// Package bootstrap builds adapters and core services from settings.
package bootstrap
