package workspace

// overrideUserHomeDir swaps the userHomeDir seam for fn and returns a
// restore function, so tests can simulate missing or unusual home
// directories.
func overrideUserHomeDir(fn func() (string, error)) func() {
	old := userHomeDir
	userHomeDir = fn
	return func() { userHomeDir = old }
}

// overrideGOOS swaps the getGOOS seam for fn and returns a restore
// function, so the per-OS default root logic is testable everywhere.
func overrideGOOS(fn func() string) func() {
	old := getGOOS
	getGOOS = fn
	return func() { getGOOS = old }
}
