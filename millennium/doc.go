// Package millennium provides a client for the Millennium ERP HTTP API.
//
// The client logs in once to obtain a session token and then calls named
// remote methods with GET or POST, translating wire JSON into Go values and
// HTTP failures into typed errors.
//
// # Usage
//
//	client, err := millennium.Login(ctx, "erp.example.com", "user", "secret",
//		millennium.WithTLS(true),
//		millennium.WithTimeout(30*time.Second),
//		millennium.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Get(ctx, "millenium.produtos.lista", millennium.Params{"ativo": true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if count, ok := resp.Count(); ok {
//		fmt.Println("total:", count)
//	}
//	for rec := range resp.Records() {
//		fmt.Println(rec.String("descricao"))
//	}
//
// # Values
//
// Date-time strings in the wire form 2024-03-01T10:20:30.000Z are decoded to
// time.Time (UTC, second precision). JSON objects become *Record values with
// fields in server order and numbers are kept as json.Number. time.Time
// parameters are sent as "2024-03-01 10:20:30".
//
// # Error Handling
//
// Every error returned by the client is an *Error and matches ErrProtocol:
//
//   - ErrNoConnection: the host could not be reached
//   - ErrLoginFailed: HTTP 401 at login or on a call
//   - ErrNotLoggedIn: a call was made before a successful login
//   - ErrMethodExecFailed: HTTP 500, carrying the server's message
//   - ErrBadParameter: HTTP 400
//   - ErrMethodNotFound: HTTP 404
//   - ErrMethodTimeout: the request timed out
//   - ErrUnexpectedStatus: login answered with a status other than 200/401/500
//
// Match them with errors.Is:
//
//	if errors.Is(err, millennium.ErrMethodNotFound) {
//		// Handle missing method
//	}
package millennium
