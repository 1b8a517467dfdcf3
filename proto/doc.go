// Package proto provides the low-level wire layer of the Music Player Daemon
// protocol.
//
// This package serves as a foundation for the connection engine in the parent
// package. It covers framing, line classification and serialization only, and
// keeps no per-connection state beyond the receive buffer.
//
// # Wire format
//
// Every message is one line terminated by a single LF:
//
//	server greeting:   OK MPD <major>.<minor>.<patch>
//	command:           <name> ["arg" ...]
//	pair:              <name>: <value>
//	success:           OK
//	batch boundary:    list_OK
//	error:             ACK [<code>@<position>] {<command>} <message>
//
// # Reading
//
// Reader is the framed receiver. It reads into a fixed-capacity buffer and
// hands out one line at a time:
//
//	r := proto.NewReader(conn, proto.DefaultBufferSize)
//	r.SetTimeout(5 * time.Second)
//	line, err := r.ReadLine()
//
// ParseWelcome validates the greeting, ParseLine classifies every following
// line:
//
//	elem, err := proto.ParseLine(line)
//	switch {
//	case err != nil:
//	    // *Error of KindServer (ACK) or KindMalformed
//	case elem.Type == proto.ElementPair:
//	    fmt.Println(elem.Pair.Name, elem.Pair.Value)
//	}
//
// # Writing
//
// WriteLine sends a command under a timeout. FormatCommand quotes arguments:
//
//	err := proto.WriteLine(conn, timeout, proto.FormatCommand("find", "artist", "Nina Simone"))
//
// # Errors
//
// All failures are *Error values carrying an ErrorKind. Use errors.Is with the
// sentinels (ErrTimeout, ErrServer, ...) to test the kind, and
// ShouldCloseConnection to decide whether the connection can be reused.
package proto
