// Package server exposes the segmented address editor over WebSocket.
//
// Each connection gets its own editor, driven from that connection's read
// loop. The front end reports raw cell text and navigation keys; the server
// answers with focus requests and the recomposed value.
//
// # Protocol
//
// All frames are JSON text messages. Client to server:
//
//	{"type":"set","value":"10.0.0.1"}
//	{"type":"input","index":2,"text":"5"}
//	{"type":"key","index":1,"key":"backspace","caret_start":0,"caret_end":0}
//
// Server to client:
//
//	{"type":"focus","index":1}
//	{"type":"state","value":"192...","segments":["192","","",""],"accepted":true,"changed":true,"complete":false}
//	{"type":"error","message":"unknown message type \"paste\""}
//
// A focus frame always precedes the state it belongs to. Every handled frame
// gets a state reply, so a state frame is not a change notification by
// itself: changed is true only when an input frame was accepted and the value
// was recomposed. Treat that as the change event. A rejected edit is not an
// error: the state arrives with accepted and changed false and the value
// unchanged. For key frames accepted reports whether focus moved; set frames
// replace the value without counting as a change. Error frames are reserved
// for frames the server cannot parse.
//
// On connect the server sends one state frame describing the initial value.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 8080})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until SIGINT or SIGTERM, then closes every session.
package server
