// Package logger is a standardized event logging framework for job control.
//
// Events are protobuf Struct values written as newline delimited JSON so the
// log can be read back with protojson and summarized by Report.
package logger
