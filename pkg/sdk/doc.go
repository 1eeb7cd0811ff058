// Package docdex provides an HTTP client for the docdex document search API.
//
// The client wraps the /v1 JSON endpoints: ranked search, document upload,
// chunk listing and deletion, plus the health probe. Errors decoded from the
// service error envelope unwrap to the same sentinels the service uses, so
// callers can match them with errors.Is:
//
//	client, _ := docdex.New("https://docdex.internal",
//	    docdex.WithAPIKey(os.Getenv("DOCDEX_API_KEY")),
//	)
//
//	sum, err := client.Upload(ctx, "cv.pdf", file)
//	if errors.Is(err, docdex.ErrUnsupportedFile) {
//	    // ...
//	}
//
//	results, _ := client.Search(ctx, "who is John Doe", 5)
//	for _, r := range results {
//	    fmt.Println(r.Similarity, r.Content)
//	}
package docdex
