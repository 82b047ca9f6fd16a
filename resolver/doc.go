// Package resolver maps capability levels to module files and binds
// versioned interfaces to the delegates those modules export.
//
// ModulePath is a pure function from (dir, base, level, ext) to a file
// path; it never touches the filesystem. Binding does the loading: on
// first use it loads the module, calls its factory with the versioned
// interface name, and memoizes the result. Resolution happens at most
// once per binding. A failed resolution is terminal, and so is Close.
package resolver
