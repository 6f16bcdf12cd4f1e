// Package media stores uploaded images for categories, products and banners.
// Two backends exist: a local directory for development and any
// S3-compatible bucket for deployments.
package media
