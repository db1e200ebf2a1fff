// Package maintenance holds the garden maintenance records: the companies
// contracted for upkeep and the managed green-space units they service.
// Handlers assume the access policy already ran; writes are admin gated
// there, not here.
package maintenance
