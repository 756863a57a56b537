package cli

// RunWithWriter runs the CLI writing command output to w
var RunWithWriter = run
