// Package solr provides a small Solr client with per-call timing details.
//
// Every outbound call a Client makes is dispatched through a single entry
// point, a Sender. By default a Client uses the process-wide Global entry
// point, whose Sender can be swapped at runtime to observe or decorate calls:
//
//	client := solr.NewClient(
//	    solr.WithBaseURL("http://localhost:8983/solr/products"),
//	    solr.WithTimeout(10*time.Second),
//	)
//
//	resp, err := client.Select(context.Background(), "name:widget", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Found: %d (QTime %dms)\n", resp.NumFound(), resp.QTime())
//
// A Client can also be given its own entry point or Sender, which keeps
// decoration local to that client:
//
//	client := solr.NewClient(
//	    solr.WithBaseURL(url),
//	    solr.WithSender(mySender),
//	)
//
// Thread Safety:
//
// Client is safe for concurrent use. EntryPoint swaps are atomic with
// respect to Sender lookups, but callers that swap a shared entry point are
// responsible for ordering their swaps.
package solr
