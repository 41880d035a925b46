// Package arduino drives a microcontroller running ROSArduinoBridge
// compatible firmware.
package arduino

// The firmware speaks a line oriented ASCII protocol. A request is a
// single letter verb followed by space separated arguments and
// terminated by '\r'. The reply is exactly one '\n' terminated line:
// "OK" for acknowledged commands, a number, or space separated numbers.
//
// There is no sequence number, checksum or echo, so a reply is only
// correlated to its request by order. The transport is half-duplex:
// one command is written and its reply read while holding a single
// lock, and nothing else may touch the transport in between.
