package rag

// SampleDocuments is the built-in starter corpus indexed by the seed
// command. IDs are fixed so re-seeding upserts instead of duplicating.
func SampleDocuments() []Document {
	return []Document{
		{
			ID:     "doc_001",
			Text:   "Go is a statically typed, compiled programming language designed at Google. It is known for fast builds, a small language surface, and first-class concurrency via goroutines and channels, and is widely used for servers, networking tools, and infrastructure software.",
			Source: "Go Basics",
		},
		{
			ID:     "doc_002",
			Text:   "pgvector is a PostgreSQL extension that adds a vector column type and nearest-neighbor search operators. It supports cosine distance, inner product, and Euclidean distance, with IVFFlat and HNSW indexes for approximate search at scale.",
			Source: "pgvector Guide",
		},
		{
			ID:     "doc_003",
			Text:   "Machine learning is a subset of artificial intelligence that enables systems to learn and improve from experience without being explicitly programmed. Common techniques include supervised learning, unsupervised learning, and reinforcement learning.",
			Source: "ML Concepts",
		},
		{
			ID:     "doc_004",
			Text:   "RAG (Retrieval-Augmented Generation) combines information retrieval with text generation. It retrieves relevant documents from a database and uses them to augment the prompt for a language model, reducing hallucinations and improving answer quality.",
			Source: "RAG Fundamentals",
		},
		{
			ID:     "doc_005",
			Text:   "Vector databases store embeddings and enable semantic search. They convert text to dense vectors and find similar items quickly using metrics like cosine similarity. This is essential for RAG systems.",
			Source: "Vector DB Primer",
		},
		{
			ID:     "doc_006",
			Text:   "Ollama is a tool for running large language models locally on your machine. It simplifies the process of downloading and running models like LLaMA, Mistral, and others without needing cloud APIs.",
			Source: "Ollama Intro",
		},
		{
			ID:     "doc_007",
			Text:   "Gemini is Google's family of multimodal models, available through the Gemini API. The lineup includes fast, low-cost flash models for high-volume workloads and larger pro models for complex reasoning, plus dedicated embedding models for semantic search.",
			Source: "Gemini Overview",
		},
		{
			ID:     "doc_008",
			Text:   "Embeddings are dense vector representations of text. Modern embedding models convert sentences into fixed-size vectors that capture semantic meaning, enabling similarity comparisons.",
			Source: "Embeddings Explained",
		},
	}
}
