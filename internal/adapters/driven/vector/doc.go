// Package vector holds the vector store adapters.
//
// The pinecone subpackage talks to a managed Pinecone index over REST.
// The memory subpackage keeps records in process for development and tests.
package vector
