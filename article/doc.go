// Package article implements the article resource: a free-form JSON document
// listed and created over HTTP, persisted in MongoDB or a SQL database.
package article
