// Package aur provides a client for the Arch User Repository RPC interface.
//
// Every call is a GET against the configured base URL with extra query
// parameters:
//
//	type=search&arg=<query>[&by=<field>]
//	type=info&arg[]=<name>[&arg[]=<name>...]
//
// and every answer is an envelope {version, type, resultcount, results,
// error}. An envelope with an error message (or type "error") is reported
// as a RESPONSE_ERROR even though the HTTP status is 200.
package aur
