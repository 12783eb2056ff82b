// Package domain contains the core entities of the document QA pipeline:
// parsed text blocks, token chunks, stored vector points, conversations
// and the shared error taxonomy.
//
// Domain types have no dependencies on adapters or external services.
package domain
