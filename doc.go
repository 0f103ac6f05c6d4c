// Package shui provides a Go client library for controlling and monitoring
// 3D printers running the SHUI firmware (MKS WiFi / ESP8266 boards) over the
// firmware's line-oriented TCP command protocol and its companion HTTP
// upload mechanism.
//
// # Protocol Architecture
//
// SHUI exposes a Marlin-style text protocol on TCP port 8080:
//
//   - The firmware accepts exactly one client at a time; all wire access in
//     this package is serialised through a Gate.
//   - On connect the firmware may send an unsolicited welcome banner, which
//     is drained before the first command.
//   - Commands are single lines terminated by CRLF; replies are terminated
//     by a newline and may arrive fragmented across several TCP segments.
//
// File transfer uses a separate HTTP endpoint (the MKS WiFi raw
// octet-stream protocol): POST /upload?X-Filename=<name> with the file
// bytes as the body, no multipart envelope.
//
// # Quick Start
//
//	printer := shui.NewPrinter("192.168.1.213", shui.DefaultCommandPort)
//
//	status, err := printer.QueryStatus()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("hotend %.1f°C, state %s\n", status.Hotend.Current, status.State)
//
//	content = shui.InjectCooling(content, 120)
//	result := printer.Upload("part.gcode", []byte(content), nil)
//	fmt.Println(result.Message)
//
// # Error Model
//
// Transport faults never escape as raw network errors. Public operations
// return well-defined sentinels instead: an empty reply means "no answer",
// ErrGateBusy means another command currently owns the wire, and a nil
// status means the printer is unreachable or desynced. Callers always get a
// total function to call.
//
// # Thread Safety
//
// A Printer is safe for concurrent use. The embedded Gate guarantees at
// most one open command connection to the device at any instant; a caller
// that cannot obtain the gate within its bound observes ErrGateBusy rather
// than queueing indefinitely.
package shui
