package main

import "os"

// jsonStdout is standard output, named for readability at JSON-encoder
// call sites.
var jsonStdout = os.Stdout

// timeFormat is used for human-readable (non-JSON) timestamp output.
const timeFormat = "2006-01-02 15:04:05"
