package main

import "perm/camera"

func main() {
	unguarded()
	checked()
	recovered()
	viaHelper()
}

func unguarded() {
	camera.Open()
}

func checked() {
	if camera.CheckPermission("camera") {
		camera.Open()
	}
}

func recovered() {
	defer func() { recover() }()
	camera.Open()
}

func viaHelper() {
	defer func() {
		if r := recover(); r != nil {
			println("no camera")
		}
	}()
	helper()
}

func helper() {
	camera.Open()
}

func unused() {
	camera.Open()
}
