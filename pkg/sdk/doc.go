// Package agentsearch provides an embedded Go client for the agentic crew
// candidate search pipeline backed by a SQLite candidate store.
//
// The client wires the same pipeline the HTTP server runs: query
// interpretation, hard filters, vector similarity, shortlist selection and
// per-candidate judging.
//
//	client, _ := agentsearch.New(ctx,
//	    agentsearch.WithSQLite("file:candidates.db"),
//	    agentsearch.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	    agentsearch.WithEmbeddingModel("text-embedding-3-small", 1536),
//	    agentsearch.WithInterpreterModel("gpt-4o-mini"),
//	    agentsearch.WithJudgeModel("openai", "", "gpt-4o"),
//	)
//	defer client.Close()
//
//	_ = client.Upsert(ctx, &agentsearch.Candidate{ID: "c-1", PrimaryPosition: "Chief Stewardess"})
//	resp, _ := client.Search(ctx, "Chief Stew with STCW and 5+ years", 10)
//
// Providers can be replaced with WithEmbedder, WithInterpreter and WithReasoner.
package agentsearch
