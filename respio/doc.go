// Package respio reads IMAP responses from a byte stream, for decoding by
// package imapclient, and has helpers for tracing and charset decoding.
package respio
