// Package resources exposes the static EVM reference tables (gas reference
// bands, block explorers and supported chains) as URI-addressed read-only
// documents on any host that can register resource handlers.
package resources
