// Package mpd is a client for the Music Player Daemon protocol.
//
// The core is Connection: a single half-duplex session that sends one
// command at a time and reads its response element by element.
//
//	conn, err := mpd.Dial("localhost", 6600, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	if err := conn.SendCommand("currentsong"); err != nil {
//	    return err
//	}
//	for {
//	    pair, err := conn.NextPair()
//	    if err != nil {
//	        return err
//	    }
//	    if pair == nil {
//	        break // OK
//	    }
//	    fmt.Println(pair.Name, pair.Value)
//	}
//
// Command lists are sent between BeginBatch and EndBatch. With
// acknowledgements, each sub-response ends at a list_OK and NextListOK moves
// to the next one.
//
// Idle mode is entered with EnterIdle and left with ReadIdle (blocking) or
// ExitIdle (noidle).
//
// # Errors
//
// Every error is a *proto.Error. Server rejections (ACK) and misuse of the
// request/response sequence leave the connection usable; any other error
// means it must be closed. See proto.ShouldCloseConnection.
//
// # Client
//
// Client shares connections to one or more daemons between goroutines, with
// a connection pool and an optional circuit breaker per daemon:
//
//	client, err := mpd.NewClient([]string{"localhost:6600"}, mpd.Config{MaxSize: 4})
//	status, err := client.Status(ctx, "living-room")
package mpd
