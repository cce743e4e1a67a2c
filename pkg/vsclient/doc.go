// Package vsclient wraps the OpenAI files and vector store APIs with
// get-or-create helpers.
//
// # Basic Usage
//
//	client, err := vsclient.New(apiKey)
//	if err != nil {
//	    return err
//	}
//
//	vs, err := client.GetOrCreateVectorStore(ctx, "handbook")
//	file, err := client.GetOrCreateFile(ctx, "docs/handbook.pdf", vsclient.PurposeAssistants)
//	_, err = client.GetOrCreateVectorStoreFile(ctx, vs.ID, file.ID)
//
// # Name Lookups
//
// The service does not enforce unique names. FindFilesByName and
// FindVectorStoresByName return every match; the Get*ByName helpers pick one
// according to the client's TieBreak (listing order by default, see
// WithTieBreak).
//
// # Concurrency
//
// Get-or-create is list, scan, then create. Calls on the same key through one
// Client are serialized by an advisory lock (WithNameLocking); callers in
// other processes can still race and create duplicates.
//
// # Error Handling
//
//	file, err := client.GetFile(ctx, id)
//	if errors.Is(err, vsclient.ErrNotFound) {
//	    // unknown id
//	}
//
// ListVectorStoreFilenames never fails on a single membership: unresolved
// entries carry a *ResolutionError in FilenameResult.Err.
package vsclient
