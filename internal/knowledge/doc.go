// Package knowledge manages the vector-backed knowledge base used for
// retrieval-augmented triage.
//
// Documents are embedded with a Genkit ai.Embedder and stored in PostgreSQL
// with pgvector. Search runs cosine similarity over the embeddings (the <=>
// operator) and returns the closest documents with their similarity scores.
//
// The store requires PostgreSQL with the pgvector extension; the documents
// table and its HNSW index are created by the embedded migrations in db/.
package knowledge
