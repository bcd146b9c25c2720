// Package pastebin is a client for the pastebin.com HTTP API.
//
// Every operation is a single blocking round trip on a fresh connection.
// Nothing is retried, cached or pooled.
//
// # Quick Start
//
//	c := pastebin.NewClient()
//
//	userKey, err := c.ObtainUserKey(devKey, "user", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	s := pastebin.NewSession(c, devKey, userKey)
//	url, err := s.CreatePrivatePaste("print(1)", "hello.py")
//
//	pastes, err := s.ListPastesParsed(pastebin.DefaultResultsLimit)
//	for _, p := range pastes {
//		fmt.Println(p.Key, p.Title, p.Visibility)
//	}
//
// # Anonymous Use
//
// Pastes created without a user key are anonymous, and public pastes can be
// read without any key at all:
//
//	url, err := c.CreatePaste(devKey, code, pastebin.PasteOptions{})
//	lines, err := c.FetchPublicRaw("0b42rwhf")
//
// # Error Handling
//
// The service reports every failure as a single line beginning with
// "Bad API request". Such answers are returned as an *Error whose Message is
// that line:
//
//	_, err := s.DeletePasteByName("notes")
//	if pastebin.IsNotFound(err) {
//		// no paste with that title
//	}
//	if pastebin.IsAPIRequestError(err) {
//		// bad key, bad paste, rate limit...
//	}
//
// # Testing
//
// Substitute the network with WithTransport, or point the client at the
// local sandbox with WithBaseURL.
package pastebin
