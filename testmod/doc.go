// Package testmod is an in-memory module backend for tests. Its Loader
// counts loads, its Module hands out whatever delegates the test wired
// in, and the Stub* types record every forwarded call. Host test suites
// may use it to exercise shim wiring without real engine builds.
package testmod
