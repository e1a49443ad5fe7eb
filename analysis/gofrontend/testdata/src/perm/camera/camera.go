package camera

var granted = map[string]bool{}

// Open panics if the camera permission has not been granted
func Open() int {
	if !granted["camera"] {
		panic("permission denied: camera")
	}
	return 1
}

// CheckPermission returns true if the permission has been granted
func CheckPermission(name string) bool {
	return granted[name]
}

// Grant grants the permission
func Grant(name string) {
	granted[name] = true
}
