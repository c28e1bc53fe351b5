package main

import "exusiai.dev/posecoach/cmd/app"

func main() {
	app.Run()
}
